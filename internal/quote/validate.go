package quote

import (
	"fmt"
	"strings"
)

type Severity string

const (
	SeverityFatal    Severity = "FATAL"
	SeverityAdvisory Severity = "ADVISORY"
)

// Issue is one validation finding. Fatal issues block finalization;
// advisory issues record a value that was defaulted or dropped.
type Issue struct {
	Field    FieldName `json:"field,omitempty"`
	ItemNo   int       `json:"item_no,omitempty"` // 1-based, 0 when not item-scoped
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
}

func (i Issue) String() string {
	return i.Message
}

// HasFatal reports whether any issue in the list blocks finalization.
func HasFatal(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity == SeverityFatal {
			return true
		}
	}
	return false
}

// FatalMessages returns the messages of the fatal issues, in order.
func FatalMessages(issues []Issue) []string {
	var out []string
	for _, is := range issues {
		if is.Severity == SeverityFatal {
			out = append(out, is.Message)
		}
	}
	return out
}

// Validate normalizes every scalar and item value in r in place and
// returns the issues found, in field-catalog then item order. It is
// stable: running it a second time on an already normalized record
// yields the same record and the same issues.
func Validate(r *Record) []Issue {
	var issues []Issue

	for _, spec := range Catalog {
		if spec.Kind != KindText {
			continue
		}
		v := NormalizeText(r.Scalar(spec.Name))
		r.SetScalar(spec.Name, v)
		if v != "" {
			continue
		}
		switch spec.Name {
		case FieldIssuedBy:
			// Optional in spirit: an unknown issuer is recorded as
			// not applicable rather than blocking the quotation.
			r.SetScalar(FieldIssuedBy, NotApplicable)
		case FieldNotes:
			// Optional, empty is fine.
		default:
			issues = append(issues, Issue{
				Field:    spec.Name,
				Message:  fmt.Sprintf("Missing required field: %s", spec.Name),
				Severity: SeverityFatal,
			})
		}
	}
	if r.IssuedBy != "" && IsNegation(r.IssuedBy) {
		r.IssuedBy = NotApplicable
	}
	if IsNegation(r.Notes) || r.Notes == NotApplicable || strings.EqualFold(r.Notes, "no notes") {
		r.Notes = ""
	}

	discount, defaulted := NormalizeDiscount(r.Discount.String())
	if defaulted {
		issues = append(issues, Issue{
			Field:    FieldDiscount,
			Message:  "Invalid discount format, using 0",
			Severity: SeverityAdvisory,
		})
	}
	r.Discount = Flex(FormatAmount(discount))

	issues = append(issues, validateItems(r)...)
	return issues
}

func validateItems(r *Record) []Issue {
	var issues []Issue
	kept := r.Items[:0:0]
	for i, item := range r.Items {
		n := i + 1
		name := NormalizeText(item.Name)
		if name == "" && item.Quantity.IsEmpty() && item.UnitPrice.IsEmpty() {
			issues = append(issues, Issue{
				Field:    FieldItems,
				ItemNo:   n,
				Message:  fmt.Sprintf("Item %d is missing required fields (name, quantity, or price)", n),
				Severity: SeverityAdvisory,
			})
			continue
		}
		if name == "" || name == NotApplicable {
			name = fmt.Sprintf("Item %d", n)
		}
		item.Name = name

		qty, defaulted := NormalizeQuantity(item.Quantity.String())
		if defaulted {
			issues = append(issues, Issue{
				Field:    FieldItems,
				ItemNo:   n,
				Message:  fmt.Sprintf("Invalid quantity for item %d, using default value 1", n),
				Severity: SeverityAdvisory,
			})
		}
		item.Quantity = Flex(FormatAmount(qty))

		if price, ok := NormalizeUnitPrice(item.UnitPrice.String()); ok {
			item.UnitPrice = Flex(FormatAmount(price))
		} else {
			// No safe default for a price. The item stays in the
			// record so the user can correct it, but finalization is
			// blocked.
			issues = append(issues, Issue{
				Field:    FieldItems,
				ItemNo:   n,
				Message:  fmt.Sprintf("Invalid price for item %d, please provide a valid number", n),
				Severity: SeverityFatal,
			})
			item.UnitPrice = Flex(strings.TrimSpace(item.UnitPrice.String()))
		}
		kept = append(kept, item)
	}
	r.Items = kept
	if len(r.Items) == 0 {
		issues = append(issues, Issue{
			Field:    FieldItems,
			Message:  "No valid items found",
			Severity: SeverityFatal,
		})
	}
	return issues
}

// MissingFields reports which required fields are still unknown, in
// the catalog's declared order regardless of the order fields were
// filled in. Items count as present once at least one item would
// survive validation with a parseable price.
func MissingFields(r *Record) []FieldName {
	var out []FieldName
	for _, f := range RequiredFields() {
		if f == FieldItems {
			if usableItemCount(r) == 0 {
				out = append(out, f)
			}
			continue
		}
		if NormalizeText(r.Scalar(f)) == "" {
			out = append(out, f)
		}
	}
	return out
}

// usableItemCount mirrors validateItems: an item counts once it would
// survive the drop rule and its price parses.
func usableItemCount(r *Record) int {
	n := 0
	for _, item := range r.Items {
		if NormalizeText(item.Name) == "" && item.Quantity.IsEmpty() && item.UnitPrice.IsEmpty() {
			continue
		}
		if _, ok := NormalizeUnitPrice(item.UnitPrice.String()); !ok {
			continue
		}
		n++
	}
	return n
}
