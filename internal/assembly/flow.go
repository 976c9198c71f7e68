package assembly

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/joelkehle/quotedesk/internal/quote"
)

const retryMessage = "Sorry, I had trouble processing that message. Please try again."

// Flow drives one session through the assembly state machine. Each
// input batch runs the same pipeline: extract (or synthesize, in
// guided mode), merge against the known record, validate, recompute
// missing fields, then decide the next phase. The pipeline is atomic
// per turn: the session's record is only replaced after the whole
// merge+validate+missing step succeeded.
type Flow struct {
	oracle       Oracle
	recap        Recapper
	renderer     Renderer
	validityDays int
	now          func() time.Time
	tracer       trace.Tracer
}

func NewFlow(oracle Oracle, recap Recapper, renderer Renderer, validityDays int) *Flow {
	return &Flow{
		oracle:       oracle,
		recap:        recap,
		renderer:     renderer,
		validityDays: validityDays,
		now:          time.Now,
		tracer:       otel.Tracer("github.com/joelkehle/quotedesk/internal/assembly"),
	}
}

// HandleMessage processes one input batch for the session. Oracle
// failures never surface as errors or touch the record; the user is
// re-prompted in the same state.
func (f *Flow) HandleMessage(ctx context.Context, s *Session, text string) Reply {
	ctx, span := f.tracer.Start(ctx, "assembly.turn", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("session.mode", string(s.Mode)),
		attribute.String("session.phase", string(s.Phase)),
	))
	defer span.End()

	if s.Phase.Terminal() {
		return Reply{
			Message: "This quotation session is finished. Start a new one to create another quotation.",
			Phase:   s.Phase,
		}
	}
	if s.Mode == ModeGuided {
		reply := f.handleGuided(ctx, s, text)
		span.SetAttributes(attribute.String("session.next_phase", string(reply.Phase)))
		return reply
	}

	if s.Phase == PhaseInit {
		s.Phase = PhaseCollecting
	}

	extraction, err := f.extract(ctx, s, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		return Reply{Message: retryMessage, Phase: s.Phase, Missing: s.Missing}
	}

	reply := f.advance(ctx, s, extraction.Record, extraction.ReplaceItems)
	span.SetAttributes(
		attribute.String("session.next_phase", string(reply.Phase)),
		attribute.Int("record.missing", len(reply.Missing)),
	)
	return reply
}

func (f *Flow) extract(ctx context.Context, s *Session, text string) (Extraction, error) {
	ctx, span := f.tracer.Start(ctx, "oracle.extract")
	defer span.End()
	extraction, err := f.oracle.Extract(ctx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "oracle call failed")
		return Extraction{}, err
	}
	span.SetAttributes(attribute.Int("extraction.missing_hint", len(extraction.MissingHint)))
	return extraction, nil
}

// advance runs merge, validation, and the completeness check on a
// candidate record, commits the result to the session, and picks the
// next phase.
func (f *Flow) advance(ctx context.Context, s *Session, candidate quote.Record, replaceItems bool) Reply {
	merged := quote.Merge(s.Record, candidate, replaceItems)
	issues := quote.Validate(&merged)
	missing := quote.MissingFields(&merged)
	s.assignSequence(&merged)

	s.Record = merged
	s.Missing = missing
	s.turns++

	switch {
	case len(missing) > 0:
		s.Phase = PhaseClarifying
		return Reply{
			Message: clarificationMessage(&s.Record, missing),
			Phase:   s.Phase,
			Missing: missing,
			Issues:  issues,
		}
	case quote.HasFatal(issues):
		// A first free-form batch with fatal issues stays in
		// collecting; later batches are clarifications.
		if s.turns == 1 && s.Mode == ModeFreeform {
			s.Phase = PhaseCollecting
		} else {
			s.Phase = PhaseClarifying
		}
		return Reply{
			Message: strings.Join(quote.FatalMessages(issues), "\n"),
			Phase:   s.Phase,
			Issues:  issues,
		}
	default:
		s.Phase = PhaseSummarized
		summary := f.recap.Summarize(ctx, &s.Record)
		return Reply{
			Message:      summary + "\n\nIs everything correct? Reply yes to generate the quotation, or tell me what to change.",
			Phase:        s.Phase,
			Issues:       issues,
			NeedsConfirm: true,
		}
	}
}

// Confirm resolves the summarized record. A rejection keeps the full
// record and returns to collecting for another round; an acceptance
// finalizes, renders the document, and terminates the session.
func (f *Flow) Confirm(ctx context.Context, s *Session, accept bool) Reply {
	ctx, span := f.tracer.Start(ctx, "assembly.confirm", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.Bool("confirm.accept", accept),
	))
	defer span.End()

	if s.Phase.Terminal() {
		return Reply{Message: "This quotation session is finished.", Phase: s.Phase}
	}
	if s.Phase != PhaseSummarized {
		return Reply{
			Message: "Please complete all required fields before confirming.",
			Phase:   s.Phase,
			Missing: s.Missing,
		}
	}
	if !accept {
		s.Phase = PhaseCollecting
		return Reply{
			Message: "No problem. Tell me what to change and I will update the quotation.",
			Phase:   s.Phase,
		}
	}

	q, err := quote.Finalize(&s.Record, f.now(), f.validityDays)
	if err != nil {
		span.RecordError(err)
		s.Phase = PhaseClarifying
		return Reply{
			Message: "The quotation is not complete yet: " + err.Error(),
			Phase:   s.Phase,
			Missing: quote.MissingFields(&s.Record),
		}
	}

	path, err := f.renderer.Render(ctx, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		s.Phase = PhaseAborted
		return Reply{
			Message: "Sorry, generating the quotation document failed. Please start a new session and try again.",
			Phase:   s.Phase,
		}
	}

	s.Phase = PhaseFinalized
	return Reply{
		Message:      "Quotation " + q.Number + " generated successfully.",
		Phase:        s.Phase,
		DocumentPath: path,
	}
}

// Cancel aborts the session from any non-terminal state. The dialogue
// driver removes the session from its store afterwards so the next
// turn starts fresh.
func (f *Flow) Cancel(s *Session) Reply {
	if s.Phase.Terminal() {
		return Reply{Message: "This quotation session is already finished.", Phase: s.Phase}
	}
	s.Phase = PhaseAborted
	return Reply{
		Message: "Quotation creation cancelled. Start a new session to create another quotation.",
		Phase:   s.Phase,
	}
}
