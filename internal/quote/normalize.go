package quote

import (
	"strconv"
	"strings"
)

// NotApplicable is the sentinel stored when the user explicitly marks a
// text field as not applicable. It counts as present, not missing.
const NotApplicable = "N/A"

var negationTokens = map[string]bool{
	"no":           true,
	"none":         true,
	"no discount":  true,
	"not provided": true,
	"0":            true,
	"":             true,
}

var notApplicableTokens = map[string]bool{
	"n/a":            true,
	"na":             true,
	"not applicable": true,
}

// IsNegation reports whether raw is an explicit "nothing here" answer,
// the kind users give for discounts ("no", "none", "no discount").
func IsNegation(raw string) bool {
	return negationTokens[strings.ToLower(strings.TrimSpace(raw))]
}

// IsNotApplicable reports whether raw is an explicit not-applicable
// marker for a text field.
func IsNotApplicable(raw string) bool {
	return notApplicableTokens[strings.ToLower(strings.TrimSpace(raw))]
}

// NormalizeText trims a scalar text value and collapses not-applicable
// variants onto the NotApplicable sentinel. Idempotent: the sentinel
// itself maps back onto itself.
func NormalizeText(raw string) string {
	v := strings.TrimSpace(raw)
	if IsNotApplicable(v) {
		return NotApplicable
	}
	return v
}

// NumericPart strips everything that is not a digit or decimal point,
// so "RM 1,000.50", "$1000.50" and "1000.50/unit" all reduce to the
// same parseable core. Only the first decimal point is kept.
func NumericPart(raw string) string {
	var b strings.Builder
	dot := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !dot:
			dot = true
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseAmount extracts a non-negative number from a raw value,
// tolerating currency symbols, thousand separators, and unit suffixes.
// ok is false when no digits survive the stripping.
func ParseAmount(raw string) (float64, bool) {
	core := NumericPart(raw)
	if core == "" || core == "." {
		return 0, false
	}
	v, err := strconv.ParseFloat(core, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatAmount renders a normalized number back into its canonical
// string form, without trailing zeros, so normalization is stable
// across repeated validation passes.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// NormalizeDiscount maps a raw discount value to a number. Negations
// and not-applicable markers mean zero. defaulted is true when the
// value was unparseable and fell back to zero, which callers surface
// as an advisory rather than an error.
func NormalizeDiscount(raw string) (value float64, defaulted bool) {
	v := strings.TrimSpace(raw)
	if IsNegation(v) || IsNotApplicable(v) {
		return 0, false
	}
	amount, ok := ParseAmount(v)
	if !ok {
		return 0, true
	}
	return amount, false
}

// NormalizeQuantity maps a raw quantity to a positive number. Falls
// back to 1 when the value is unparseable or not positive; defaulted
// reports that case so callers can emit an advisory.
func NormalizeQuantity(raw string) (value float64, defaulted bool) {
	amount, ok := ParseAmount(raw)
	if !ok || amount <= 0 {
		return 1, true
	}
	return amount, false
}

// NormalizeUnitPrice maps a raw unit price to a positive number. There
// is no safe default for a price, so failure is reported to the caller
// (who treats it as fatal) instead of being papered over.
func NormalizeUnitPrice(raw string) (value float64, ok bool) {
	amount, parsed := ParseAmount(raw)
	if !parsed || amount <= 0 {
		return 0, false
	}
	return amount, true
}
