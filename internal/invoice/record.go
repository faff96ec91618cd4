// Package invoice defines the structured record produced by the extraction
// pipeline. Field names are stable: the API and bot layers serialize these
// structs verbatim, so renaming a JSON tag is a breaking change.
package invoice

// Party identifies one counterparty of the document.
// Every field is optional: nil means the extractor found nothing,
// an empty string is never stored.
type Party struct {
	Name    *string `json:"name,omitempty"`
	INN     *string `json:"inn,omitempty"` // 10 digits (org) or 12 (sole proprietor)
	KPP     *string `json:"kpp,omitempty"` // 9 digits, organizations only
	Address *string `json:"address,omitempty"`
}

// SupplierDetails is the issuing party plus its banking details.
// Banking details live here because payment requisites on a счёт always
// belong to the issuer.
type SupplierDetails struct {
	Party
	Bank                 *string `json:"bank,omitempty"`
	BIK                  *string `json:"bik,omitempty"`                   // 9 digits
	Account              *string `json:"account,omitempty"`               // 20 digits
	CorrespondentAccount *string `json:"correspondent_account,omitempty"` // 20 digits
}

// LineItem is one row of the goods/services table. Columns missing from the
// source table stay nil; values are carried as-is, not reparsed.
type LineItem struct {
	Name  *string `json:"name,omitempty"`
	Qty   *string `json:"qty,omitempty"`
	Unit  *string `json:"unit,omitempty"`
	Price *string `json:"price,omitempty"`
	Total *string `json:"total,omitempty"`
}

// Record aggregates everything extracted from one document. A Record is
// assembled once per input and never mutated afterwards.
type Record struct {
	DocumentType   *string `json:"document_type,omitempty"`
	DocumentNumber *string `json:"document_number,omitempty"`
	DocumentDate   *string `json:"document_date,omitempty"` // DD.MM.YYYY

	Supplier SupplierDetails `json:"supplier"`
	Buyer    Party           `json:"buyer"`

	TotalAmount      *string `json:"total_amount,omitempty"` // decimal, "." separator
	VATAmount        *string `json:"vat_amount,omitempty"`
	WithoutVATAmount *string `json:"without_vat_amount,omitempty"`
	VATRate          string  `json:"vat_rate"` // "NN%" or "Без НДС"; always set

	Items []LineItem `json:"items"`
}

// Str is a convenience for building optional fields from literals.
func Str(s string) *string { return &s }
