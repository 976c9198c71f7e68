package quote

var mergeScalars = []FieldName{
	FieldCustomerName,
	FieldCustomerCompany,
	FieldCustomerAddress,
	FieldCustomerPhone,
	FieldCustomerEmail,
	FieldTerms,
	FieldIssuedBy,
	FieldDiscount,
	FieldNotes,
}

// Merge combines a previously known record with a freshly extracted
// one. For every scalar field the incoming value wins only if it is
// non-empty; an absent incoming value never erases what an earlier
// turn established.
//
// Items are sticky: once the previous record holds any items, incoming
// items are ignored unless replaceItems signals that the new input is
// deliberately restating the item list. This keeps a clarification
// about, say, payment terms from silently discarding fully specified
// items.
func Merge(prev, incoming Record, replaceItems bool) Record {
	out := prev.Clone()
	for _, f := range mergeScalars {
		if v := incoming.Scalar(f); !emptyScalar(v) {
			out.SetScalar(f, v)
		}
	}
	if len(prev.Items) == 0 || replaceItems {
		if len(incoming.Items) > 0 {
			out.Items = make([]Item, len(incoming.Items))
			copy(out.Items, incoming.Items)
		}
	}
	return out
}

func emptyScalar(v string) bool {
	return Flex(v).IsEmpty()
}
