package constants

// DocumentType is the closed taxonomy of documents the extractor recognizes.
type DocumentType string

const (
	PaymentInvoice DocumentType = "Счёт на оплату"
	OfferInvoice   DocumentType = "Счёт-оферта"
	CompletionAct  DocumentType = "Акт выполненных работ"
	GenericInvoice DocumentType = "Счёт"
)

// TypePhrase pairs a lowercase containment phrase with the type it denotes.
type TypePhrase struct {
	Phrase string
	Type   DocumentType
}

// TypePhrases is the ordered detection list: specific phrases before the
// generic fallback, first contained phrase wins. Both е and ё spellings are
// listed because OCR output is inconsistent about the diaeresis.
var TypePhrases = []TypePhrase{
	{"счет на оплату", PaymentInvoice},
	{"счёт на оплату", PaymentInvoice},
	{"счет-оферта", OfferInvoice},
	{"счёт-оферта", OfferInvoice},
	{"акт выполненных работ", CompletionAct},
	{"счет", GenericInvoice},
	{"счёт", GenericInvoice},
}
