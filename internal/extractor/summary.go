package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joelkehle/quotedesk/internal/quote"
)

const summarySystemPrompt = "You are a quotation summary assistant. Generate clear, friendly summaries."

// Summarizer produces the human-readable recap shown before the user
// confirms a completed quotation.
type Summarizer struct {
	caller LLMCaller
}

func NewSummarizer(caller LLMCaller) *Summarizer {
	return &Summarizer{caller: caller}
}

// Summarize asks the model for a natural-language recap of the record.
// When the call fails it falls back to the deterministic recap so the
// confirmation step never blocks on the model.
func (s *Summarizer) Summarize(ctx context.Context, r *quote.Record) string {
	blob, err := json.Marshal(r)
	if err != nil {
		return FallbackRecap(r)
	}
	prompt := fmt.Sprintf(`Generate a friendly, natural summary of this quotation data:
%s

Format it as a clear, concise message that highlights:
1. Customer details
2. Items with quantities and prices
3. Terms and conditions
4. Discount (if any)
5. Issued by (if provided)`, blob)

	out, err := s.caller.Generate(ctx, summarySystemPrompt, prompt)
	if err != nil || strings.TrimSpace(out) == "" {
		return FallbackRecap(r)
	}
	return strings.TrimSpace(out)
}

// FallbackRecap builds a recap without a model call. Also used for the
// known-so-far section of clarification messages.
func FallbackRecap(r *quote.Record) string {
	var items strings.Builder
	for _, item := range r.Items {
		fmt.Fprintf(&items, "- %s: %s x %s\n", orUnknown(item.Name, "Unknown item"), orUnknown(item.Quantity.String(), "?"), orUnknown(item.UnitPrice.String(), "?"))
	}
	return fmt.Sprintf(
		"Summary of quotation for %s at %s:\n\n"+
			"Contact: %s / %s\n"+
			"Address: %s\n\n"+
			"Items:\n%s\n"+
			"Terms & Conditions: %s\n"+
			"Discount: %s\n"+
			"Issued by: %s\n",
		orUnknown(r.CustomerName, "Customer"),
		orUnknown(r.CustomerCompany, "Company"),
		orUnknown(r.CustomerEmail, "No email"),
		orUnknown(r.CustomerPhone, "No phone"),
		orUnknown(r.CustomerAddress, "No address"),
		items.String(),
		orUnknown(r.Terms, "None"),
		orUnknown(r.Discount.String(), "0"),
		orUnknown(r.IssuedBy, "Not specified"),
	)
}

func orUnknown(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
