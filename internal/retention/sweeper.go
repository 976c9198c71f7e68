// Package retention deletes generated quotation documents once their
// download window has lapsed. Documents are served from disk for a
// short period after finalization; the sweeper removes the file and
// marks the index row purged.
package retention

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joelkehle/quotedesk/internal/docstore"
)

// Index is the slice of the document store the sweeper needs.
type Index interface {
	ListExpired(now time.Time) ([]docstore.Document, error)
	MarkPurged(quotationNumber string) error
}

type Sweeper struct {
	index    Index
	interval time.Duration
	now      func() time.Time
	remove   func(string) error
}

func NewSweeper(index Index, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		index:    index,
		interval: interval,
		now:      time.Now,
		remove:   os.Remove,
	}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.SweepOnce(); err != nil {
				log.Printf("retention sweep error: %v", err)
			} else if n > 0 {
				log.Printf("retention sweep removed %d document(s)", n)
			}
		}
	}
}

// SweepOnce removes every expired document and returns how many files
// were purged. A file already gone from disk still gets its index row
// marked, so a failed earlier sweep cannot wedge the entry forever.
func (s *Sweeper) SweepOnce() (int, error) {
	expired, err := s.index.ListExpired(s.now())
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, d := range expired {
		if err := s.remove(d.FilePath); err != nil && !os.IsNotExist(err) {
			log.Printf("retention: remove %s: %v", d.FilePath, err)
			continue
		}
		if err := s.index.MarkPurged(d.QuotationNumber); err != nil {
			log.Printf("retention: mark purged %s: %v", d.QuotationNumber, err)
			continue
		}
		purged++
	}
	return purged, nil
}
