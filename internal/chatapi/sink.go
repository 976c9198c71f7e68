package chatapi

import (
	"context"
	"errors"
	"time"

	"github.com/joelkehle/quotedesk/internal/assembly"
	"github.com/joelkehle/quotedesk/internal/docstore"
	"github.com/joelkehle/quotedesk/internal/quote"
)

type ctxKey int

const sessionIDKey ctxKey = iota

func withSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

func sessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// DocumentRecorder is the write side of the document index.
type DocumentRecorder interface {
	Add(d docstore.Document) error
}

// DocumentSink renders a finalized quotation and records the resulting
// file in the index so it can be served and later swept. It is the
// renderer the assembly flow is wired with.
type DocumentSink struct {
	inner     assembly.Renderer
	index     DocumentRecorder
	retention time.Duration
	now       func() time.Time
}

func NewDocumentSink(inner assembly.Renderer, index DocumentRecorder, retention time.Duration) *DocumentSink {
	if retention <= 0 {
		retention = 10 * time.Minute
	}
	return &DocumentSink{
		inner:     inner,
		index:     index,
		retention: retention,
		now:       time.Now,
	}
}

func (d *DocumentSink) Render(ctx context.Context, q *quote.Quotation) (string, error) {
	for attempt := 0; ; attempt++ {
		path, err := d.inner.Render(ctx, q)
		if err != nil {
			return "", err
		}

		now := d.now().UTC()
		err = d.index.Add(docstore.Document{
			QuotationNumber: q.Number,
			CustomerCompany: q.CustomerCompany,
			SessionID:       sessionIDFromContext(ctx),
			FilePath:        path,
			Subtotal:        q.Subtotal(),
			GrandTotal:      q.GrandTotal(),
			CreatedAt:       now,
			ExpiresAt:       now.Add(d.retention),
		})
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, docstore.ErrDuplicateNumber) || attempt >= 4 {
			return "", err
		}
		// The randomly drawn number is already taken. Redraw and
		// re-render so the document carries the number it is indexed
		// under.
		q.Number = quote.NewQuotationNumber()
	}
}
