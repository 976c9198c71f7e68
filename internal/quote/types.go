package quote

import (
	"encoding/json"
	"strings"
)

// Flex is a scalar value that tolerates whatever shape the extraction
// model returns for a field: string, number, boolean, or null. It is
// stored as raw text and interpreted during validation.
type Flex string

func (f *Flex) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "" || raw == "null" {
		*f = ""
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Flex(s)
		return nil
	}
	*f = Flex(raw)
	return nil
}

func (f Flex) String() string {
	return string(f)
}

func (f Flex) IsEmpty() bool {
	return strings.TrimSpace(string(f)) == ""
}

// Item is a line item as captured during assembly. Quantity and
// UnitPrice stay in raw form until Validate normalizes them.
type Item struct {
	SequenceNo string `json:"sequence_no,omitempty"`
	Name       string `json:"name"`
	Quantity   Flex   `json:"quantity"`
	UnitPrice  Flex   `json:"unit_price"`
}

// Record is the quotation being assembled. Scalars hold whatever the
// user or the extraction model supplied; Validate rewrites them with
// normalized values. The sentinel "N/A" counts as present.
type Record struct {
	CustomerName    string `json:"customer_name,omitempty"`
	CustomerCompany string `json:"customer_company,omitempty"`
	CustomerAddress string `json:"customer_address,omitempty"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	CustomerEmail   string `json:"customer_email,omitempty"`
	Terms           string `json:"terms,omitempty"`
	IssuedBy        string `json:"issued_by,omitempty"`
	Items           []Item `json:"items,omitempty"`
	Discount        Flex   `json:"discount,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// Scalar returns the raw value of a scalar field. Returns "" for
// FieldItems and unknown names.
func (r *Record) Scalar(f FieldName) string {
	switch f {
	case FieldCustomerName:
		return r.CustomerName
	case FieldCustomerCompany:
		return r.CustomerCompany
	case FieldCustomerAddress:
		return r.CustomerAddress
	case FieldCustomerPhone:
		return r.CustomerPhone
	case FieldCustomerEmail:
		return r.CustomerEmail
	case FieldTerms:
		return r.Terms
	case FieldIssuedBy:
		return r.IssuedBy
	case FieldNotes:
		return r.Notes
	case FieldDiscount:
		return r.Discount.String()
	}
	return ""
}

// SetScalar overwrites the raw value of a scalar field. FieldItems and
// unknown names are ignored.
func (r *Record) SetScalar(f FieldName, v string) {
	switch f {
	case FieldCustomerName:
		r.CustomerName = v
	case FieldCustomerCompany:
		r.CustomerCompany = v
	case FieldCustomerAddress:
		r.CustomerAddress = v
	case FieldCustomerPhone:
		r.CustomerPhone = v
	case FieldCustomerEmail:
		r.CustomerEmail = v
	case FieldTerms:
		r.Terms = v
	case FieldIssuedBy:
		r.IssuedBy = v
	case FieldNotes:
		r.Notes = v
	case FieldDiscount:
		r.Discount = Flex(v)
	}
}

// Clone returns a deep copy. Merge and Validate operate on copies so a
// failed turn never leaves the session's record half mutated.
func (r *Record) Clone() Record {
	out := *r
	if r.Items != nil {
		out.Items = make([]Item, len(r.Items))
		copy(out.Items, r.Items)
	}
	return out
}
