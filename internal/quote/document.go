package quote

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// LineItem is a fully normalized, priced line of a finalized
// quotation. Quantity and UnitPrice are strictly positive.
type LineItem struct {
	SequenceNo string  `json:"sequence_no"`
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

// Total returns quantity times unit price, rounded to cents.
func (li LineItem) Total() float64 {
	return round2(li.Quantity * li.UnitPrice)
}

// Quotation is the terminal, typed form of an assembled record, ready
// for the document renderer. It is only produced from a record that
// validated with no fatal issues.
type Quotation struct {
	Number          string     `json:"quotation_number"`
	CreatedAt       time.Time  `json:"created_at"`
	ExpiresAt       time.Time  `json:"expires_at"`
	CustomerName    string     `json:"customer_name"`
	CustomerCompany string     `json:"customer_company"`
	CustomerAddress string     `json:"customer_address"`
	CustomerPhone   string     `json:"customer_phone"`
	CustomerEmail   string     `json:"customer_email"`
	Terms           string     `json:"terms"`
	IssuedBy        string     `json:"issued_by"`
	Notes           string     `json:"notes,omitempty"`
	Items           []LineItem `json:"items"`
	Discount        float64    `json:"discount"`
}

var ErrIncomplete = errors.New("record has unresolved validation issues")

// Finalize converts a validated record into a typed Quotation,
// assigning a quotation number and validity window. It refuses records
// that still carry missing fields or unparseable values; callers run
// Validate first and only finalize on a clean pass.
func Finalize(r *Record, now time.Time, validityDays int) (*Quotation, error) {
	if missing := MissingFields(r); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrIncomplete, joinFields(missing))
	}
	q := &Quotation{
		Number:          NewQuotationNumber(),
		CreatedAt:       now,
		ExpiresAt:       now.AddDate(0, 0, validityDays),
		CustomerName:    r.CustomerName,
		CustomerCompany: r.CustomerCompany,
		CustomerAddress: r.CustomerAddress,
		CustomerPhone:   r.CustomerPhone,
		CustomerEmail:   r.CustomerEmail,
		Terms:           r.Terms,
		IssuedBy:        r.IssuedBy,
		Notes:           r.Notes,
	}
	for i, item := range r.Items {
		qty, ok := ParseAmount(item.Quantity.String())
		if !ok || qty <= 0 {
			return nil, fmt.Errorf("%w: item %d quantity", ErrIncomplete, i+1)
		}
		price, ok := NormalizeUnitPrice(item.UnitPrice.String())
		if !ok {
			return nil, fmt.Errorf("%w: item %d unit price", ErrIncomplete, i+1)
		}
		q.Items = append(q.Items, LineItem{
			SequenceNo: item.SequenceNo,
			Name:       item.Name,
			Quantity:   qty,
			UnitPrice:  price,
		})
	}
	if len(q.Items) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrIncomplete)
	}
	discount, _ := NormalizeDiscount(r.Discount.String())
	q.Discount = discount
	return q, nil
}

// Subtotal is the sum of all line totals, rounded to cents.
func (q *Quotation) Subtotal() float64 {
	total := 0.0
	for _, item := range q.Items {
		total += item.Total()
	}
	return round2(total)
}

// GrandTotal is the subtotal less the discount, rounded to cents.
func (q *Quotation) GrandTotal() float64 {
	return round2(q.Subtotal() - q.Discount)
}

// Filename derives the document base name from the customer company
// and creation date, e.g. "Testing_Sdn_Bhd_Quotation_2026-09-01".
func (q *Quotation) Filename() string {
	company := strings.ReplaceAll(strings.TrimSpace(q.CustomerCompany), " ", "_")
	return fmt.Sprintf("%s_Quotation_%s", company, q.CreatedAt.Format("2006-01-02"))
}

// NewQuotationNumber returns a fresh QUO-##### reference.
func NewQuotationNumber() string {
	return fmt.Sprintf("QUO-%05d", rand.Intn(100000))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func joinFields(fields []FieldName) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}
