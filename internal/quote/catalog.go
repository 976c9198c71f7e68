package quote

type FieldName string

const (
	FieldCustomerName    FieldName = "customer_name"
	FieldCustomerCompany FieldName = "customer_company"
	FieldCustomerAddress FieldName = "customer_address"
	FieldCustomerPhone   FieldName = "customer_phone"
	FieldCustomerEmail   FieldName = "customer_email"
	FieldItems           FieldName = "items"
	FieldTerms           FieldName = "terms"
	FieldIssuedBy        FieldName = "issued_by"
	FieldDiscount        FieldName = "discount"
	FieldNotes           FieldName = "notes"
)

type FieldKind string

const (
	KindText   FieldKind = "text"
	KindItems  FieldKind = "items"
	KindAmount FieldKind = "amount"
)

type FieldSpec struct {
	Name     FieldName
	Label    string
	Kind     FieldKind
	Required bool
}

// Catalog declares every record field in presentation order. The
// required subset drives MissingFields; the order here is the order
// missing fields are reported back to the user and must stay stable.
var Catalog = []FieldSpec{
	{Name: FieldCustomerName, Label: "Customer name", Kind: KindText, Required: true},
	{Name: FieldCustomerCompany, Label: "Company name", Kind: KindText, Required: true},
	{Name: FieldCustomerAddress, Label: "Address", Kind: KindText, Required: true},
	{Name: FieldCustomerPhone, Label: "Phone number", Kind: KindText, Required: true},
	{Name: FieldCustomerEmail, Label: "Email address", Kind: KindText, Required: true},
	{Name: FieldItems, Label: "Items", Kind: KindItems, Required: true},
	{Name: FieldTerms, Label: "Payment terms", Kind: KindText, Required: true},
	{Name: FieldIssuedBy, Label: "Issued by", Kind: KindText, Required: false},
	{Name: FieldDiscount, Label: "Discount", Kind: KindAmount, Required: false},
	{Name: FieldNotes, Label: "Notes", Kind: KindText, Required: false},
}

// RequiredFields returns the required field names in catalog order.
func RequiredFields() []FieldName {
	var out []FieldName
	for _, spec := range Catalog {
		if spec.Required {
			out = append(out, spec.Name)
		}
	}
	return out
}

// FieldLabel returns the display name for a field, falling back to the
// raw field name when it is not in the catalog.
func FieldLabel(f FieldName) string {
	for _, spec := range Catalog {
		if spec.Name == f {
			return spec.Label
		}
	}
	return string(f)
}
