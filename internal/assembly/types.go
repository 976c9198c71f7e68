package assembly

import (
	"context"

	"github.com/joelkehle/quotedesk/internal/quote"
)

type Phase string

const (
	PhaseInit       Phase = "init"
	PhaseCollecting Phase = "collecting"
	PhaseClarifying Phase = "clarifying"
	PhaseSummarized Phase = "summarized"
	PhaseFinalized  Phase = "finalized"
	PhaseAborted    Phase = "aborted"
)

// Terminal reports whether the phase accepts no further input.
func (p Phase) Terminal() bool {
	return p == PhaseFinalized || p == PhaseAborted
}

type Mode string

const (
	ModeFreeform Mode = "freeform"
	ModeGuided   Mode = "guided"
)

// Extraction is what the oracle derived from one message. ReplaceItems
// marks the message as deliberately restating the item list, which
// overrides the sticky-items merge rule.
type Extraction struct {
	Record       quote.Record
	MissingHint  []quote.FieldName
	ReplaceItems bool
}

// Oracle converts free text into a draft record. Best effort: the
// record may be sparse and MissingHint is advisory; the flow recomputes
// completeness itself after merging.
type Oracle interface {
	Extract(ctx context.Context, text string) (Extraction, error)
}

// Recapper produces the human-readable summary shown for confirmation.
// Implementations must not fail: on model trouble they degrade to a
// deterministic recap.
type Recapper interface {
	Summarize(ctx context.Context, r *quote.Record) string
}

// Renderer is handed the finalized quotation exactly once per session.
type Renderer interface {
	Render(ctx context.Context, q *quote.Quotation) (path string, err error)
}

// Reply is what a turn sends back through the messaging channel.
type Reply struct {
	Message      string            `json:"message"`
	Phase        Phase             `json:"phase"`
	Missing      []quote.FieldName `json:"missing_fields,omitempty"`
	Issues       []quote.Issue     `json:"issues,omitempty"`
	NeedsConfirm bool              `json:"needs_confirm,omitempty"`
	DocumentPath string            `json:"document_path,omitempty"`
}
