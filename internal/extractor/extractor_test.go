package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/joelkehle/quotedesk/internal/quote"
)

type fakeCaller struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCaller) Generate(_ context.Context, _, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestExtractParsesEnvelope(t *testing.T) {
	fake := &fakeCaller{response: `{
		"data": {
			"customer_name": "Tan Ah Kow",
			"customer_company": "Testing Sdn Bhd",
			"items": [{"name": "Table", "quantity": 5, "unit_price": "1000/unit"}],
			"discount": 0
		},
		"missing_fields": ["customer_phone", "terms"]
	}`}
	ex := New(fake)

	rec, hints, err := ex.Extract(context.Background(), "some quote text")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if rec.CustomerName != "Tan Ah Kow" {
		t.Fatalf("customer name = %q", rec.CustomerName)
	}
	if len(rec.Items) != 1 || rec.Items[0].Quantity.String() != "5" || rec.Items[0].UnitPrice.String() != "1000/unit" {
		t.Fatalf("items = %+v", rec.Items)
	}
	if len(hints) != 2 || hints[0] != quote.FieldCustomerPhone {
		t.Fatalf("hints = %v", hints)
	}
}

func TestExtractToleratesCodeFences(t *testing.T) {
	fake := &fakeCaller{response: "```json\n{\"data\": {\"customer_name\": \"X\"}, \"missing_fields\": []}\n```"}
	rec, _, err := New(fake).Extract(context.Background(), "text")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if rec.CustomerName != "X" {
		t.Fatalf("customer name = %q", rec.CustomerName)
	}
}

func TestExtractTransportFailure(t *testing.T) {
	fake := &fakeCaller{err: errors.New("status code: 529")}
	if _, _, err := New(fake).Extract(context.Background(), "text"); err == nil {
		t.Fatal("expected error")
	}
}

func TestExtractUnparseableOutput(t *testing.T) {
	fake := &fakeCaller{response: "I could not find any quotation data, sorry!"}
	if _, _, err := New(fake).Extract(context.Background(), "text"); err == nil {
		t.Fatal("expected error for non-JSON output")
	}
}

func TestExtractPromptCarriesInput(t *testing.T) {
	fake := &fakeCaller{response: `{"data": {}, "missing_fields": []}`}
	_, _, err := New(fake).Extract(context.Background(), "Table 11238, 5 unit, 1000/unit")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(fake.prompts) != 1 || !strings.Contains(fake.prompts[0], "Table 11238") {
		t.Fatal("input text not forwarded to the model")
	}
}

func TestWantsItemReplacement(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"Replace the items with 3 desks at 400 each", true},
		{"the items should be: Desk x2 at 500", true},
		{"Actually the payment terms are net 30", false},
		{"phone is 0123456", false},
	}
	for _, tc := range cases {
		if got := WantsItemReplacement(tc.text); got != tc.want {
			t.Fatalf("WantsItemReplacement(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestSummarizeFallsBackOnError(t *testing.T) {
	fake := &fakeCaller{err: errors.New("timeout")}
	r := &quote.Record{
		CustomerName:    "Tan Ah Kow",
		CustomerCompany: "Testing Sdn Bhd",
		Items:           []quote.Item{{Name: "Table", Quantity: "5", UnitPrice: "1000"}},
	}
	got := NewSummarizer(fake).Summarize(context.Background(), r)
	if !strings.Contains(got, "Tan Ah Kow") || !strings.Contains(got, "Table") {
		t.Fatalf("fallback recap missing content: %q", got)
	}
}

func TestSummarizeUsesModelOutput(t *testing.T) {
	fake := &fakeCaller{response: "Here is your quotation for Tan Ah Kow."}
	got := NewSummarizer(fake).Summarize(context.Background(), &quote.Record{})
	if got != "Here is your quotation for Tan Ah Kow." {
		t.Fatalf("summary = %q", got)
	}
}
