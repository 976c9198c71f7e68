package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joelkehle/quotedesk/internal/quote"
)

const extractSystemPrompt = "You are a quotation data extraction assistant. " +
	"Extract structured data from freeform text. Be thorough and look for all " +
	"required information, even if it is in different sections or formats. " +
	"Respond with strict JSON only."

const maxInputChars = 16000

// Extractor turns a free-form message into a draft quotation record.
// It is best effort: the returned record may be arbitrarily sparse and
// the missing-field hint is advisory only. Callers recompute
// completeness themselves after merging.
type Extractor struct {
	caller LLMCaller
}

func New(caller LLMCaller) *Extractor {
	return &Extractor{caller: caller}
}

// envelope is the wire shape the model is asked to produce.
type envelope struct {
	Data          quote.Record `json:"data"`
	MissingFields []string     `json:"missing_fields"`
}

// Extract asks the model for a structured draft of text. A non-nil
// error means the oracle is unusable this turn (transport failure or
// unparseable output); the caller re-prompts without touching its
// state.
func (e *Extractor) Extract(ctx context.Context, text string) (quote.Record, []quote.FieldName, error) {
	text = strings.TrimSpace(text)
	if len(text) > maxInputChars {
		text = text[:maxInputChars]
	}

	raw, err := e.caller.Generate(ctx, extractSystemPrompt, buildExtractPrompt(text))
	if err != nil {
		return quote.Record{}, nil, fmt.Errorf("extraction call: %w", err)
	}
	clean := stripCodeFences(raw)
	if strings.TrimSpace(clean) == "" {
		return quote.Record{}, nil, fmt.Errorf("extraction returned empty response")
	}

	var env envelope
	if err := json.Unmarshal([]byte(clean), &env); err != nil {
		return quote.Record{}, nil, fmt.Errorf("extraction returned unparseable JSON: %w", err)
	}

	var hints []quote.FieldName
	for _, f := range env.MissingFields {
		hints = append(hints, quote.FieldName(strings.TrimSpace(f)))
	}
	return env.Data, hints, nil
}

func buildExtractPrompt(text string) string {
	var b strings.Builder
	b.WriteString(`Extract quotation data from the following text.
If the text has both "Previous information" and "Additional information" sections, merge them intelligently.

Return a JSON object of the form:
{
  "data": {
    "customer_name": "...",
    "customer_company": "...",
    "customer_address": "...",
    "customer_phone": "...",
    "customer_email": "...",
    "items": [{"name": "...", "quantity": "...", "unit_price": "..."}],
    "terms": "...",
    "discount": "...",
    "issued_by": "...",
    "notes": "..."
  },
  "missing_fields": ["field1", "field2"]
}

If a field value is "No" or "None" or a similar negative, keep it verbatim.
For missing or unclear fields use empty strings or omit them.
Required fields are: customer_name, customer_company, customer_address, customer_phone, customer_email, items, terms.
List any required field you could not determine in missing_fields.

Text to analyze:
`)
	b.WriteString(text)
	return b.String()
}

// replaceItemTokens are phrases that mark a message as deliberately
// restating the item list, overriding the sticky-items merge rule.
var replaceItemTokens = []string{
	"replace the items",
	"replace items",
	"replace all items",
	"new item list",
	"change the items to",
	"the items should be",
	"items are now",
}

// WantsItemReplacement reports whether a message explicitly asks for
// the item list to be replaced rather than kept.
func WantsItemReplacement(text string) bool {
	lower := strings.ToLower(text)
	for _, tok := range replaceItemTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}
