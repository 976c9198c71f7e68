package assembly

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joelkehle/quotedesk/internal/quote"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the in-memory assembly state for one conversation. Turns
// must not interleave within a session, so it carries its own lock;
// the dialogue driver holds it for the duration of a turn. Distinct
// sessions never block each other.
type Session struct {
	sync.Mutex

	ID        string
	Mode      Mode
	Phase     Phase
	Record    quote.Record
	Missing   []quote.FieldName
	CreatedAt time.Time

	// nextSeq numbers line items in insertion order. It only moves
	// forward, so ordinals are never reused even when the item list is
	// replaced wholesale.
	nextSeq int

	// turns counts processed input batches; the first free-form batch
	// lands in collecting rather than clarifying on fatal issues.
	turns int

	guided guidedState
}

// assignSequence gives every item without an ordinal the next one,
// formatted as a three-digit string.
func (s *Session) assignSequence(r *quote.Record) {
	for i := range r.Items {
		if r.Items[i].SequenceNo == "" {
			s.nextSeq++
			r.Items[i].SequenceNo = fmt.Sprintf("%03d", s.nextSeq)
		}
	}
}

// Store holds the in-flight sessions, keyed by session ID. It is the
// explicit replacement for the per-user global map the bot pattern
// tends to grow: the dialogue driver owns it and injects it where
// needed.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (st *Store) Create(mode Mode) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Mode:      mode,
		Phase:     PhaseInit,
		CreatedAt: time.Now(),
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete removes a session; subsequent turns for that conversation
// start over from a fresh session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
