package assembly

import (
	"context"
	"strings"
	"testing"

	"github.com/joelkehle/quotedesk/internal/quote"
)

// walk feeds a sequence of answers to a guided session and returns the
// last reply.
func walk(t *testing.T, flow *Flow, s *Session, answers ...string) Reply {
	t.Helper()
	var reply Reply
	for _, a := range answers {
		reply = flow.HandleMessage(context.Background(), s, a)
	}
	return reply
}

func TestGuidedFullScript(t *testing.T) {
	flow := newTestFlow(&fakeOracle{}, &fakeRenderer{})
	s := NewStore().Create(ModeGuided)

	begin := flow.Begin(s)
	if begin.Phase != PhaseCollecting || !strings.Contains(begin.Message, "customer") {
		t.Fatalf("begin = %+v", begin)
	}

	reply := walk(t, flow, s,
		"Tan Ah Kow",
		"Testing Sdn Bhd",
		"N33-1, Jalan SS5",
		"0123456",
		"x@y.com",
		"Table",      // item name
		"5",          // quantity
		"1000",       // unit price
		"done",       // no more items
		"25% upfront", // terms
		"n/a",        // issued by
		"no",         // discount
		"none",       // notes
	)
	if reply.Phase != PhaseSummarized || !reply.NeedsConfirm {
		t.Fatalf("script did not end summarized: %+v", reply)
	}
	if s.Record.CustomerName != "Tan Ah Kow" || len(s.Record.Items) != 1 {
		t.Fatalf("record = %+v", s.Record)
	}
	if s.Record.Items[0].SequenceNo != "001" {
		t.Fatalf("sequence = %q", s.Record.Items[0].SequenceNo)
	}
	if s.Record.IssuedBy != quote.NotApplicable {
		t.Fatalf("issued_by = %q", s.Record.IssuedBy)
	}
	if s.Record.Discount.String() != "0" {
		t.Fatalf("discount = %q", s.Record.Discount)
	}
}

func TestGuidedItemLoop(t *testing.T) {
	flow := newTestFlow(&fakeOracle{}, &fakeRenderer{})
	s := NewStore().Create(ModeGuided)
	flow.Begin(s)

	walk(t, flow, s,
		"Tan Ah Kow", "Testing Sdn Bhd", "Addr", "0123456", "x@y.com",
		"Table", "5", "1000",
		"Chair", // typing a name instead of "done" starts the next item
		"10", "250",
		"done",
	)
	if len(s.Record.Items) != 2 {
		t.Fatalf("items = %+v", s.Record.Items)
	}
	if s.Record.Items[1].SequenceNo != "002" {
		t.Fatalf("second item sequence = %q", s.Record.Items[1].SequenceNo)
	}
}

func TestGuidedRejectsBadNumbers(t *testing.T) {
	flow := newTestFlow(&fakeOracle{}, &fakeRenderer{})
	s := NewStore().Create(ModeGuided)
	flow.Begin(s)

	walk(t, flow, s, "Tan Ah Kow", "Testing Sdn Bhd", "Addr", "0123456", "x@y.com", "Table")

	reply := flow.HandleMessage(context.Background(), s, "a few")
	if !strings.Contains(reply.Message, "valid positive number") {
		t.Fatalf("bad quantity accepted: %q", reply.Message)
	}
	flow.HandleMessage(context.Background(), s, "5")

	reply = flow.HandleMessage(context.Background(), s, "TBD")
	if !strings.Contains(reply.Message, "valid positive number") {
		t.Fatalf("bad price accepted: %q", reply.Message)
	}
	reply = flow.HandleMessage(context.Background(), s, "1000")
	if !strings.Contains(reply.Message, "done") {
		t.Fatalf("expected more-items prompt, got %q", reply.Message)
	}
}

func TestGuidedConfirmGeneratesDocument(t *testing.T) {
	renderer := &fakeRenderer{}
	flow := newTestFlow(&fakeOracle{}, renderer)
	s := NewStore().Create(ModeGuided)
	flow.Begin(s)

	walk(t, flow, s,
		"Tan Ah Kow", "Testing Sdn Bhd", "Addr", "0123456", "x@y.com",
		"Table", "5", "1000", "done",
		"25% upfront", "n/a", "no", "none",
	)
	reply := flow.Confirm(context.Background(), s, true)
	if reply.Phase != PhaseFinalized || renderer.calls != 1 {
		t.Fatalf("confirm reply = %+v, renders = %d", reply, renderer.calls)
	}
}

func TestGuidedDenyThenRevise(t *testing.T) {
	oracle := &fakeOracle{queue: []Extraction{
		{Record: quote.Record{Terms: "net 30"}},
	}}
	renderer := &fakeRenderer{}
	flow := newTestFlow(oracle, renderer)
	s := NewStore().Create(ModeGuided)
	flow.Begin(s)

	reply := walk(t, flow, s,
		"Tan Ah Kow", "Testing Sdn Bhd", "Addr", "0123456", "x@y.com",
		"Table", "5", "1000", "done",
		"25% upfront", "n/a", "no", "none",
	)
	if reply.Phase != PhaseSummarized {
		t.Fatalf("script did not end summarized: %+v", reply)
	}

	reply = flow.Confirm(context.Background(), s, false)
	if reply.Phase != PhaseCollecting {
		t.Fatalf("deny reply = %+v", reply)
	}

	reply = flow.HandleMessage(context.Background(), s, "change the terms to net 30")
	if reply.Phase != PhaseSummarized || !reply.NeedsConfirm {
		t.Fatalf("correction did not re-summarize: %+v", reply)
	}
	if s.Record.Terms != "net 30" {
		t.Fatalf("terms = %q, want net 30", s.Record.Terms)
	}
	if len(s.Record.Items) != 1 || s.Record.Items[0].SequenceNo != "001" {
		t.Fatalf("items lost during revision: %+v", s.Record.Items)
	}

	reply = flow.Confirm(context.Background(), s, true)
	if reply.Phase != PhaseFinalized || renderer.calls != 1 {
		t.Fatalf("confirm after revision = %+v, renders = %d", reply, renderer.calls)
	}
}

func TestGuidedRevisionOracleFailureKeepsRecord(t *testing.T) {
	oracle := &fakeOracle{}
	flow := newTestFlow(oracle, &fakeRenderer{})
	s := NewStore().Create(ModeGuided)
	flow.Begin(s)

	walk(t, flow, s,
		"Tan Ah Kow", "Testing Sdn Bhd", "Addr", "0123456", "x@y.com",
		"Table", "5", "1000", "done",
		"25% upfront", "n/a", "no", "none",
	)
	flow.Confirm(context.Background(), s, false)

	oracle.err = context.DeadlineExceeded
	reply := flow.HandleMessage(context.Background(), s, "change the terms")
	if reply.Phase != PhaseCollecting || !strings.Contains(reply.Message, "try again") {
		t.Fatalf("oracle failure reply = %+v", reply)
	}
	if s.Record.Terms != "25% upfront" {
		t.Fatalf("record mutated on failed correction: %q", s.Record.Terms)
	}
}

func TestGuidedNoOracleCalls(t *testing.T) {
	oracle := &fakeOracle{}
	flow := newTestFlow(oracle, &fakeRenderer{})
	s := NewStore().Create(ModeGuided)
	flow.Begin(s)

	walk(t, flow, s, "Tan Ah Kow", "Testing Sdn Bhd", "Addr", "0123456", "x@y.com",
		"Table", "5", "1000", "done", "net 30", "n/a", "no", "none")
	if oracle.calls != 0 {
		t.Fatalf("guided mode called the oracle %d times", oracle.calls)
	}
}
