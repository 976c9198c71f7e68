package assembly

import (
	"fmt"
	"strings"

	"github.com/joelkehle/quotedesk/internal/quote"
)

// clarificationMessage recaps what is already known and lists the
// still-missing fields in catalog order.
func clarificationMessage(r *quote.Record, missing []quote.FieldName) string {
	var b strings.Builder
	known := knownFieldLines(r)
	if len(known) > 0 {
		b.WriteString("Here is what I have so far:\n")
		for _, line := range known {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	b.WriteString("I still need:\n")
	for _, f := range missing {
		fmt.Fprintf(&b, "- %s\n", quote.FieldLabel(f))
	}
	return strings.TrimRight(b.String(), "\n")
}

func knownFieldLines(r *quote.Record) []string {
	var lines []string
	for _, spec := range quote.Catalog {
		switch spec.Kind {
		case quote.KindItems:
			if n := len(r.Items); n > 0 {
				lines = append(lines, fmt.Sprintf("- %s: %d item(s)", spec.Label, n))
			}
		default:
			if v := r.Scalar(spec.Name); strings.TrimSpace(v) != "" {
				lines = append(lines, fmt.Sprintf("- %s: %s", spec.Label, v))
			}
		}
	}
	return lines
}
