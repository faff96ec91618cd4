package rules

import (
	"log/slog"

	"github.com/akozyrev/invoice-scanner/internal/extract"
	"github.com/akozyrev/invoice-scanner/internal/invoice"
)

// Extractor is the rule-based extract.FieldExtractor. It sequences the
// extraction stages over the document text and table grids and assembles
// the final record. Stateless; safe for concurrent use.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// ExtractFields runs the fixed linear sequence: normalize, segment, party
// extraction per block, bank details from the issuer block, amounts and
// metadata from the full text, line items from the grids. Each stage is a
// pure function of its input; once a stage commits a value no later stage
// overwrites it. Empty input is valid and yields an all-nil record.
func (e *Extractor) ExtractFields(text string, tables []extract.PageTables) *invoice.Record {
	text = Normalize(text)
	supplierBlock, buyerBlock := SplitBlocks(text)

	supplier := ExtractParty(supplierBlock)
	buyer := ExtractParty(buyerBlock)
	if buyer.INN == nil && buyerBlock == "" {
		// No recipient marker found. Best-effort fallback: the second ИНН
		// occurrence in the document, when present, tends to be the
		// buyer's. Positional and fragile, so it seeds only the inn.
		buyer.INN = secondINN(text)
	}

	bank := ExtractBankDetails(supplierBlock)
	amounts := ExtractAmounts(text)
	meta := ExtractMetadata(text)
	items := ExtractItems(tables)

	rec := &invoice.Record{
		DocumentType:   meta.Type,
		DocumentNumber: meta.Number,
		DocumentDate:   meta.Date,
		Supplier: invoice.SupplierDetails{
			Party:                supplier,
			Bank:                 bank.BankName,
			BIK:                  bank.BIK,
			Account:              bank.Account,
			CorrespondentAccount: bank.CorrespondentAccount,
		},
		Buyer:            buyer,
		TotalAmount:      amounts.Total,
		VATAmount:        amounts.VAT,
		WithoutVATAmount: amounts.WithoutVAT,
		VATRate:          amounts.Rate,
		Items:            items,
	}

	e.logger.Debug("fields.extracted",
		"doc_type", deref(rec.DocumentType),
		"doc_number", deref(rec.DocumentNumber),
		"supplier_inn", deref(rec.Supplier.INN),
		"buyer_inn", deref(rec.Buyer.INN),
		"items", len(rec.Items),
	)
	return rec
}

// secondINN returns the value of the second ИНН occurrence in the text,
// or nil when there is at most one.
func secondINN(text string) *string {
	ms := reINN.FindAllStringSubmatch(text, 2)
	if len(ms) < 2 {
		return nil
	}
	return &ms[1][1]
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
