// Package docstore keeps a SQLite index of generated quotation
// documents so they can be listed, served, and swept after their
// retention window lapses.
package docstore

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrDuplicateNumber reports a quotation number that is already
// indexed, including by a purged row kept for audit.
var ErrDuplicateNumber = errors.New("quotation number already indexed")

// Document is one generated quotation file on disk.
type Document struct {
	QuotationNumber string    `db:"quotation_number"`
	CustomerCompany string    `db:"customer_company"`
	SessionID       string    `db:"session_id"`
	FilePath        string    `db:"file_path"`
	Subtotal        float64   `db:"subtotal"`
	GrandTotal      float64   `db:"grand_total"`
	CreatedAt       time.Time `db:"-"`
	ExpiresAt       time.Time `db:"-"`
	Purged          bool      `db:"-"`
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	quotation_number TEXT PRIMARY KEY,
	customer_company TEXT NOT NULL DEFAULT '',
	session_id       TEXT NOT NULL DEFAULT '',
	file_path        TEXT NOT NULL,
	subtotal         REAL NOT NULL DEFAULT 0,
	grand_total      REAL NOT NULL DEFAULT 0,
	created_at       TEXT NOT NULL,
	expires_at       TEXT NOT NULL,
	purged           INTEGER NOT NULL DEFAULT 0
);
`

// Store is a write-through document index. All writes go straight to
// SQLite; a single connection with WAL keeps concurrent handlers safe.
type Store struct {
	db *sqlx.DB
	mu sync.Mutex
}

func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Add indexes a freshly generated document. Quotation numbers are
// drawn randomly, so a collision with an existing row (purged or not)
// is reported as ErrDuplicateNumber; the caller redraws rather than
// evicting the older document's entry.
func (s *Store) Add(d Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.Get(&n, `SELECT COUNT(*) FROM documents WHERE quotation_number = ?`, d.QuotationNumber); err != nil {
		return err
	}
	if n > 0 {
		return ErrDuplicateNumber
	}

	_, err := s.db.Exec(`INSERT INTO documents
		(quotation_number, customer_company, session_id, file_path, subtotal, grand_total, created_at, expires_at, purged)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.QuotationNumber,
		d.CustomerCompany,
		d.SessionID,
		d.FilePath,
		d.Subtotal,
		d.GrandTotal,
		timeToString(d.CreatedAt),
		timeToString(d.ExpiresAt),
		boolToInt(d.Purged),
	)
	return err
}

// ByFilePath looks up the index entry for a file that a handler is
// about to serve. Purged entries are not returned.
func (s *Store) ByFilePath(path string) (Document, bool, error) {
	rows, err := s.db.Query(`SELECT quotation_number, customer_company, session_id, file_path, subtotal, grand_total, created_at, expires_at, purged
		FROM documents WHERE file_path = ? AND purged = 0`, path)
	if err != nil {
		return Document{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return Document{}, false, rows.Err()
	}
	d, err := scanDocument(rows)
	if err != nil {
		return Document{}, false, err
	}
	return d, true, nil
}

// ListExpired returns unpurged documents whose retention window ended
// at or before now, oldest first.
func (s *Store) ListExpired(now time.Time) ([]Document, error) {
	rows, err := s.db.Query(`SELECT quotation_number, customer_company, session_id, file_path, subtotal, grand_total, created_at, expires_at, purged
		FROM documents WHERE purged = 0 AND expires_at <= ? ORDER BY expires_at`,
		timeToString(now))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// MarkPurged records that the file behind a quotation has been
// deleted from disk. The row stays for audit.
func (s *Store) MarkPurged(quotationNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`UPDATE documents SET purged = 1 WHERE quotation_number = ?`, quotationNumber)
	return err
}

// Count reports live (unpurged) index entries, for health reporting.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.Get(&n, `SELECT COUNT(*) FROM documents WHERE purged = 0`); err != nil {
		return 0, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(rows rowScanner) (Document, error) {
	var d Document
	var createdAt, expiresAt string
	var purged int
	if err := rows.Scan(&d.QuotationNumber, &d.CustomerCompany, &d.SessionID, &d.FilePath,
		&d.Subtotal, &d.GrandTotal, &createdAt, &expiresAt, &purged); err != nil {
		return Document{}, err
	}
	d.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	d.ExpiresAt, _ = time.Parse(time.RFC3339Nano, expiresAt)
	d.Purged = purged != 0
	return d, nil
}

func timeToString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
