package quote

import (
	"reflect"
	"testing"
)

func TestMergeNonEmptyIncomingWins(t *testing.T) {
	prev := Record{CustomerName: "Tan Ah Kow", Terms: "net 30"}
	incoming := Record{Terms: "25% upfront"}
	out := Merge(prev, incoming, false)
	if out.CustomerName != "Tan Ah Kow" {
		t.Fatalf("customer name lost: %q", out.CustomerName)
	}
	if out.Terms != "25% upfront" {
		t.Fatalf("terms not updated: %q", out.Terms)
	}
}

func TestMergeEmptyIncomingNeverErases(t *testing.T) {
	prev := Record{
		CustomerName:    "Tan Ah Kow",
		CustomerCompany: "Testing Sdn Bhd",
		CustomerEmail:   "x@y.com",
		Terms:           "25% upfront",
		Discount:        "5",
		Notes:           "urgent",
	}
	out := Merge(prev, Record{}, false)
	for _, f := range []FieldName{FieldCustomerName, FieldCustomerCompany, FieldCustomerEmail, FieldTerms, FieldDiscount, FieldNotes} {
		if out.Scalar(f) != prev.Scalar(f) {
			t.Fatalf("field %s erased by empty incoming: %q -> %q", f, prev.Scalar(f), out.Scalar(f))
		}
	}
}

func TestMergeItemsSticky(t *testing.T) {
	prev := Record{Items: []Item{
		{Name: "Table", Quantity: "5", UnitPrice: "1000"},
		{Name: "Chair", Quantity: "10", UnitPrice: "250"},
	}}
	incoming := Record{Items: []Item{{Name: "Desk", Quantity: "1", UnitPrice: "400"}}}
	out := Merge(prev, incoming, false)
	if !reflect.DeepEqual(out.Items, prev.Items) {
		t.Fatalf("items not sticky: %+v", out.Items)
	}
}

func TestMergeItemsReplaceSignal(t *testing.T) {
	prev := Record{Items: []Item{{Name: "Table", Quantity: "5", UnitPrice: "1000"}}}
	incoming := Record{Items: []Item{{Name: "Desk", Quantity: "1", UnitPrice: "400"}}}
	out := Merge(prev, incoming, true)
	if len(out.Items) != 1 || out.Items[0].Name != "Desk" {
		t.Fatalf("explicit replace ignored: %+v", out.Items)
	}
}

func TestMergeEmptyPreviousTakesIncomingItems(t *testing.T) {
	incoming := Record{Items: []Item{{Name: "Desk", Quantity: "1", UnitPrice: "400"}}}
	out := Merge(Record{}, incoming, false)
	if len(out.Items) != 1 || out.Items[0].Name != "Desk" {
		t.Fatalf("incoming items not taken: %+v", out.Items)
	}
}

// Splitting the same clarifications across turns must not change the
// missing-field outcome.
func TestMergeOrderInsensitiveMissingOutcome(t *testing.T) {
	a := Record{CustomerName: "Tan Ah Kow", CustomerCompany: "Testing Sdn Bhd"}
	b := Record{CustomerEmail: "x@y.com", Terms: "25% upfront"}
	c := Record{CustomerAddress: "N33-1, Jalan SS5", Items: []Item{{Name: "Table", Quantity: "5", UnitPrice: "1000"}}}

	oneShot := Merge(Merge(Merge(Record{}, a, false), b, false), c, false)
	split := Merge(Merge(Merge(Record{}, c, false), a, false), b, false)

	if !reflect.DeepEqual(MissingFields(&oneShot), MissingFields(&split)) {
		t.Fatalf("missing outcome depends on turn order: %v vs %v", MissingFields(&oneShot), MissingFields(&split))
	}
}

func TestMergeDoesNotAliasPreviousItems(t *testing.T) {
	prev := Record{Items: []Item{{Name: "Table", Quantity: "5", UnitPrice: "1000"}}}
	out := Merge(prev, Record{}, false)
	out.Items[0].Name = "Changed"
	if prev.Items[0].Name != "Table" {
		t.Fatal("merge result aliases previous record's items")
	}
}
