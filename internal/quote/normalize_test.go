package quote

import "testing"

func TestNormalizeTextNotApplicableVariants(t *testing.T) {
	for _, raw := range []string{"n/a", "N/A", "NA", "na", "not applicable", " Not Applicable "} {
		if got := NormalizeText(raw); got != NotApplicable {
			t.Fatalf("NormalizeText(%q) = %q, want %q", raw, got, NotApplicable)
		}
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{"  Tan Ah Kow ", "n/a", "N/A", "", "25% upfront", "0123456"}
	for _, raw := range inputs {
		once := NormalizeText(raw)
		twice := NormalizeText(once)
		if once != twice {
			t.Fatalf("NormalizeText not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestParseAmountStripsCurrencyAndUnits(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"1000", 1000, true},
		{"RM 1,000.50", 1000.50, true},
		{"$250/unit", 250, true},
		{"5 units", 5, true},
		{"25%", 25, true},
		{"TBD", 0, false},
		{"", 0, false},
		{".", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseAmount(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseAmount(%q) = (%v, %v), want (%v, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNormalizeDiscountNegations(t *testing.T) {
	for _, raw := range []string{"no", "none", "no discount", "not provided", "0", "", "N/A"} {
		value, defaulted := NormalizeDiscount(raw)
		if value != 0 || defaulted {
			t.Fatalf("NormalizeDiscount(%q) = (%v, %v), want (0, false)", raw, value, defaulted)
		}
	}
}

func TestNormalizeDiscountUnparseableDefaults(t *testing.T) {
	value, defaulted := NormalizeDiscount("ask sales")
	if value != 0 || !defaulted {
		t.Fatalf("NormalizeDiscount(unparseable) = (%v, %v), want (0, true)", value, defaulted)
	}
}

func TestNormalizeQuantityDefaults(t *testing.T) {
	cases := []struct {
		raw       string
		want      float64
		defaulted bool
	}{
		{"5", 5, false},
		{"5 unit", 5, false},
		{"0", 1, true},
		{"lots", 1, true},
		{"", 1, true},
	}
	for _, tc := range cases {
		got, defaulted := NormalizeQuantity(tc.raw)
		if got != tc.want || defaulted != tc.defaulted {
			t.Fatalf("NormalizeQuantity(%q) = (%v, %v), want (%v, %v)", tc.raw, got, defaulted, tc.want, tc.defaulted)
		}
	}
}

func TestNormalizeUnitPriceRejectsUnparseable(t *testing.T) {
	if _, ok := NormalizeUnitPrice("TBD"); ok {
		t.Fatal("expected unparseable price to be rejected")
	}
	if _, ok := NormalizeUnitPrice("0"); ok {
		t.Fatal("expected zero price to be rejected")
	}
	price, ok := NormalizeUnitPrice("1000/unit")
	if !ok || price != 1000 {
		t.Fatalf("NormalizeUnitPrice(1000/unit) = (%v, %v)", price, ok)
	}
}

func TestFormatAmountRoundTripStable(t *testing.T) {
	for _, raw := range []string{"5", "1000.5", "0.25"} {
		v, ok := ParseAmount(raw)
		if !ok {
			t.Fatalf("ParseAmount(%q) failed", raw)
		}
		formatted := FormatAmount(v)
		v2, ok := ParseAmount(formatted)
		if !ok || v2 != v {
			t.Fatalf("round trip unstable for %q: %v -> %q -> %v", raw, v, formatted, v2)
		}
	}
}
