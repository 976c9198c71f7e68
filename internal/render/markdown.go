package render

import (
	"fmt"
	"strings"

	"github.com/joelkehle/quotedesk/internal/config"
	"github.com/joelkehle/quotedesk/internal/quote"
)

// BuildMarkdown lays the quotation out as a GFM document: company
// letterhead, customer block, items table, totals, then terms and
// notes. The HTML/PDF renderers only ever see this markdown.
func BuildMarkdown(q *quote.Quotation, company config.Company) string {
	cur := company.CurrencySymbol
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", company.Name)
	if company.RegNo != "" {
		fmt.Fprintf(&b, "%s\n\n", company.RegNo)
	}
	fmt.Fprintf(&b, "%s  \n", company.Address)
	fmt.Fprintf(&b, "Tel: %s", company.Phone)
	if company.Fax != "" {
		fmt.Fprintf(&b, " · Fax: %s", company.Fax)
	}
	fmt.Fprintf(&b, " · %s\n\n", company.Email)

	b.WriteString("## QUOTATION\n\n")
	fmt.Fprintf(&b, "**Quotation No:** %s  \n", q.Number)
	fmt.Fprintf(&b, "**Date:** %s  \n", q.CreatedAt.Format("02 Jan 2006"))
	fmt.Fprintf(&b, "**Valid Until:** %s\n\n", q.ExpiresAt.Format("02 Jan 2006"))

	b.WriteString("### Customer\n\n")
	fmt.Fprintf(&b, "%s  \n", q.CustomerName)
	fmt.Fprintf(&b, "%s  \n", q.CustomerCompany)
	fmt.Fprintf(&b, "%s  \n", q.CustomerAddress)
	fmt.Fprintf(&b, "Tel: %s · %s\n\n", q.CustomerPhone, q.CustomerEmail)

	b.WriteString("### Items\n\n")
	b.WriteString("| No. | Description | Qty | Unit Price | Total |\n")
	b.WriteString("| --- | --- | ---: | ---: | ---: |\n")
	for _, item := range q.Items {
		fmt.Fprintf(&b, "| %s | %s | %s | %s %s | %s %s |\n",
			item.SequenceNo,
			escapePipes(item.Name),
			quote.FormatAmount(item.Quantity),
			cur, money(item.UnitPrice),
			cur, money(item.Total()),
		)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "**Subtotal:** %s %s  \n", cur, money(q.Subtotal()))
	if q.Discount > 0 {
		fmt.Fprintf(&b, "**Discount:** %s %s  \n", cur, money(q.Discount))
	}
	fmt.Fprintf(&b, "**Grand Total:** %s %s\n\n", cur, money(q.GrandTotal()))

	b.WriteString("### Terms & Conditions\n\n")
	fmt.Fprintf(&b, "%s\n", q.Terms)
	if q.Notes != "" {
		fmt.Fprintf(&b, "\n### Notes\n\n%s\n", q.Notes)
	}
	if q.IssuedBy != "" && q.IssuedBy != quote.NotApplicable {
		fmt.Fprintf(&b, "\nIssued by: %s\n", q.IssuedBy)
	}
	return b.String()
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
