package quote

import (
	"strings"
	"testing"
	"time"
)

func TestFinalizeComputesTotals(t *testing.T) {
	r := completeRecord()
	r.Items = append(r.Items, Item{Name: "Chair", Quantity: "10", UnitPrice: "250"})
	r.Discount = "500"
	if issues := Validate(&r); HasFatal(issues) {
		t.Fatalf("setup: %v", issues)
	}

	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	q, err := Finalize(&r, now, 30)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if q.Subtotal() != 7500 {
		t.Fatalf("subtotal = %v, want 7500", q.Subtotal())
	}
	if q.GrandTotal() != 7000 {
		t.Fatalf("grand total = %v, want 7000", q.GrandTotal())
	}
	if !q.ExpiresAt.Equal(now.AddDate(0, 0, 30)) {
		t.Fatalf("expiry = %v", q.ExpiresAt)
	}
	if !strings.HasPrefix(q.Number, "QUO-") || len(q.Number) != 9 {
		t.Fatalf("quotation number = %q", q.Number)
	}
}

func TestFinalizeRejectsIncomplete(t *testing.T) {
	r := completeRecord()
	r.CustomerPhone = ""
	if _, err := Finalize(&r, time.Now(), 30); err == nil {
		t.Fatal("expected error for incomplete record")
	}
}

func TestFinalizeRejectsUnparseablePrice(t *testing.T) {
	r := completeRecord()
	r.Items[0].UnitPrice = "TBD"
	if _, err := Finalize(&r, time.Now(), 30); err == nil {
		t.Fatal("expected error for unparseable price")
	}
}

func TestLineItemTotalRounding(t *testing.T) {
	li := LineItem{Quantity: 3, UnitPrice: 0.1}
	if li.Total() != 0.3 {
		t.Fatalf("total = %v, want 0.3", li.Total())
	}
}

func TestQuotationFilename(t *testing.T) {
	q := Quotation{
		CustomerCompany: "Testing Sdn Bhd",
		CreatedAt:       time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	if got := q.Filename(); got != "Testing_Sdn_Bhd_Quotation_2026-09-01" {
		t.Fatalf("filename = %q", got)
	}
}
