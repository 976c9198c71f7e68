package assembly

import (
	"context"
	"strings"

	"github.com/joelkehle/quotedesk/internal/quote"
)

// Guided mode walks the same prompt script the original step-by-step
// dialogue used: customer fields, an item loop, then terms, issuer,
// discount, and notes. Every scripted answer feeds the same merge
// pipeline the free-form mode uses without an oracle call; only
// corrections after the script ran (a rejected summary) go through
// the oracle.

type guidedStep int

const (
	stepCustomerName guidedStep = iota
	stepCustomerCompany
	stepCustomerAddress
	stepCustomerPhone
	stepCustomerEmail
	stepItemName
	stepItemQuantity
	stepItemPrice
	stepMoreItems
	stepTerms
	stepIssuedBy
	stepDiscount
	stepNotes
	stepDone
)

type guidedState struct {
	step guidedStep
	// in-progress item, filled across the name/quantity/price steps
	itemName string
	itemQty  string
	// completed flips once the script has run through; later answers
	// re-run the full validate+missing pipeline after each field.
	completed bool
}

var guidedPrompts = map[guidedStep]string{
	stepCustomerName:    "Who is the customer?",
	stepCustomerCompany: "What is the customer's company name?",
	stepCustomerAddress: "What is the customer's address?",
	stepCustomerPhone:   "What is the customer's phone number?",
	stepCustomerEmail:   "What is the customer's email address?",
	stepItemName:        "What is the item name?",
	stepItemQuantity:    "What is the quantity?",
	stepItemPrice:       "What is the unit price?",
	stepMoreItems:       "Add another item by typing its name, or reply 'done' to continue.",
	stepTerms:           "What are the payment terms?",
	stepIssuedBy:        "Who is issuing this quotation? (Reply 'n/a' to skip)",
	stepDiscount:        "Any discount? (Reply 'no' if none)",
	stepNotes:           "Any notes to add? (Reply 'none' if not)",
}

var fieldForStep = map[guidedStep]quote.FieldName{
	stepCustomerName:    quote.FieldCustomerName,
	stepCustomerCompany: quote.FieldCustomerCompany,
	stepCustomerAddress: quote.FieldCustomerAddress,
	stepCustomerPhone:   quote.FieldCustomerPhone,
	stepCustomerEmail:   quote.FieldCustomerEmail,
	stepTerms:           quote.FieldTerms,
	stepIssuedBy:        quote.FieldIssuedBy,
	stepDiscount:        quote.FieldDiscount,
	stepNotes:           quote.FieldNotes,
}

var scalarStepOrder = []guidedStep{
	stepCustomerName,
	stepCustomerCompany,
	stepCustomerAddress,
	stepCustomerPhone,
	stepCustomerEmail,
	stepItemName, // item loop entry after the customer block
	stepTerms,
	stepIssuedBy,
	stepDiscount,
	stepNotes,
	stepDone,
}

func nextScriptStep(cur guidedStep) guidedStep {
	for i, s := range scalarStepOrder {
		if s == cur && i+1 < len(scalarStepOrder) {
			return scalarStepOrder[i+1]
		}
	}
	return stepDone
}

func stepForField(f quote.FieldName) guidedStep {
	if f == quote.FieldItems {
		return stepItemName
	}
	for step, name := range fieldForStep {
		if name == f {
			return step
		}
	}
	return stepDone
}

// Begin opens a session and returns the opening prompt for its mode.
func (f *Flow) Begin(s *Session) Reply {
	if s.Phase != PhaseInit {
		return Reply{Message: "This session is already in progress.", Phase: s.Phase, Missing: s.Missing}
	}
	s.Phase = PhaseCollecting
	if s.Mode == ModeGuided {
		s.guided.step = stepCustomerName
		return Reply{
			Message: "Let's create a new quotation. " + guidedPrompts[stepCustomerName],
			Phase:   s.Phase,
		}
	}
	return Reply{
		Message: "Describe the quotation in your own words: customer details, items with quantities and unit prices, and payment terms.",
		Phase:   s.Phase,
	}
}

func (f *Flow) handleGuided(ctx context.Context, s *Session, text string) Reply {
	if s.Phase == PhaseInit {
		s.Phase = PhaseCollecting
		s.guided.step = stepCustomerName
	}
	if s.Phase == PhaseSummarized {
		return Reply{
			Message:      "Reply yes to generate the quotation, or no to make changes.",
			Phase:        s.Phase,
			NeedsConfirm: true,
		}
	}

	g := &s.guided
	input := strings.TrimSpace(text)
	if input == "" {
		return Reply{Message: guidedPrompts[g.step], Phase: s.Phase, Missing: s.Missing}
	}

	switch g.step {
	case stepItemName:
		g.itemName = input
		g.step = stepItemQuantity

	case stepItemQuantity:
		if v, ok := quote.ParseAmount(input); !ok || v <= 0 {
			return Reply{Message: "Please enter a valid positive number for the quantity.", Phase: s.Phase}
		}
		g.itemQty = input
		g.step = stepItemPrice

	case stepItemPrice:
		if _, ok := quote.NormalizeUnitPrice(input); !ok {
			return Reply{Message: "Please enter a valid positive number for the unit price.", Phase: s.Phase}
		}
		item := quote.Item{Name: g.itemName, Quantity: quote.Flex(g.itemQty), UnitPrice: quote.Flex(input)}
		items := append(s.Record.Clone().Items, item)
		merged := quote.Merge(s.Record, quote.Record{Items: items}, true)
		s.assignSequence(&merged)
		s.Record = merged
		g.itemName, g.itemQty = "", ""
		if g.completed {
			return f.guidedAdvance(ctx, s)
		}
		g.step = stepMoreItems

	case stepMoreItems:
		if isGuidedDone(input) {
			g.step = stepTerms
		} else {
			// Anything else is the next item's name.
			g.itemName = input
			g.step = stepItemQuantity
		}

	case stepDone:
		if len(s.Missing) > 0 {
			g.step = stepForField(s.Missing[0])
			return f.handleGuided(ctx, s, input)
		}
		// The script is exhausted and nothing is missing, so this text
		// is a correction (typically after a rejected summary). Route
		// it through the oracle and the shared pipeline so the change
		// lands in the record and a fresh summary comes back.
		extraction, err := f.extract(ctx, s, text)
		if err != nil {
			return Reply{Message: retryMessage, Phase: s.Phase, Missing: s.Missing}
		}
		return f.advance(ctx, s, extraction.Record, extraction.ReplaceItems)

	default:
		fld, ok := fieldForStep[g.step]
		if !ok {
			return Reply{Message: guidedPrompts[stepCustomerName], Phase: s.Phase}
		}
		candidate := quote.Record{}
		candidate.SetScalar(fld, input)
		s.Record = quote.Merge(s.Record, candidate, false)
		if g.completed {
			return f.guidedAdvance(ctx, s)
		}
		g.step = nextScriptStep(g.step)
		if g.step == stepDone {
			g.completed = true
			return f.guidedAdvance(ctx, s)
		}
	}

	return Reply{Message: guidedPrompts[g.step], Phase: s.Phase}
}

// guidedAdvance runs the shared pipeline on the accumulated record and
// reroutes a missing-field outcome back into the script so the user is
// asked one concrete question instead of a generic list.
func (f *Flow) guidedAdvance(ctx context.Context, s *Session) Reply {
	g := &s.guided
	g.completed = true
	reply := f.advance(ctx, s, quote.Record{}, false)
	if len(reply.Missing) > 0 {
		g.step = stepForField(reply.Missing[0])
		reply.Message = reply.Message + "\n\n" + guidedPrompts[g.step]
		return reply
	}
	g.step = stepDone
	return reply
}

func isGuidedDone(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "done", "no", "none", "finish", "finished":
		return true
	}
	return false
}
