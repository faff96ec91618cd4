package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/akozyrev/invoice-scanner/internal/common"
	"github.com/akozyrev/invoice-scanner/internal/extract"
	"github.com/akozyrev/invoice-scanner/internal/rules"
)

type stubText struct {
	res extract.TextExtractionResult
	err error
}

func (s stubText) Extract(context.Context, string) (extract.TextExtractionResult, error) {
	return s.res, s.err
}

type stubTables struct {
	grids []extract.PageTables
	err   error
}

func (s stubTables) Tables(context.Context, string) ([]extract.PageTables, error) {
	return s.grids, s.err
}

const sampleText = `Счёт № 45/А от 15.03.2024
ООО "Ромашка", ИНН 7701234567, КПП 770101001
р/с 40702810900000012345 в АО Альфа-Банк БИК 044525225
Покупатель: ООО "Клиент", ИНН 5001002003
Итого: 12345.67
В том числе НДС (20%) 2056.11`

func newTestScanner(text stubText, tables stubTables) *Scanner {
	return NewScanner(nil, text, tables, rules.NewExtractor(nil))
}

func TestScan_EndToEnd(t *testing.T) {
	text := stubText{res: extract.TextExtractionResult{Text: sampleText, Pages: 1, Method: "pdf-text", Confidence: 0.95}}
	tables := stubTables{grids: []extract.PageTables{{
		Page: 1,
		Tables: []extract.Grid{{
			{"№", "Наименование", "Кол-во", "Цена", "Сумма"},
			{"1", "Услуга консалтинга", "2", "5144.03", "10288.06"},
		}},
	}}}

	res, err := newTestScanner(text, tables).Scan(context.Background(), "/tmp/doc.pdf")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if res.NeedsReview {
		t.Errorf("NeedsReview = true, issues: %v", res.Issues)
	}
	if got := *res.Record.Supplier.INN; got != "7701234567" {
		t.Errorf("supplier inn = %q", got)
	}
	if got := *res.Record.TotalAmount; got != "12345.67" {
		t.Errorf("total = %q", got)
	}
	if len(res.Record.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(res.Record.Items))
	}
	if got := *res.Record.Items[0].Name; got != "Услуга консалтинга" {
		t.Errorf("item name = %q", got)
	}
	if !strings.Contains(string(res.RecordJSON), `"vat_rate":"20%"`) {
		t.Errorf("RecordJSON missing vat_rate: %s", res.RecordJSON)
	}
}

func TestScan_TextFailureIsSourceUnreadable(t *testing.T) {
	text := stubText{err: errors.New("pdftotext: exit 1")}

	_, err := newTestScanner(text, stubTables{}).Scan(context.Background(), "/tmp/broken.pdf")
	if !errors.Is(err, common.ErrSourceUnreadable) {
		t.Fatalf("err = %v, want ErrSourceUnreadable", err)
	}
}

func TestScan_TableFailureDegrades(t *testing.T) {
	text := stubText{res: extract.TextExtractionResult{Text: sampleText, Pages: 1}}
	tables := stubTables{err: errors.New("corrupt xref")}

	res, err := newTestScanner(text, tables).Scan(context.Background(), "/tmp/doc.pdf")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(res.Record.Items) != 0 {
		t.Errorf("items = %d, want 0 after table failure", len(res.Record.Items))
	}
	if got := *res.Record.TotalAmount; got != "12345.67" {
		t.Errorf("total = %q, text fields must survive table failure", got)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "table detection") {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want a table detection entry", res.Warnings)
	}
}

func TestValidateRecordJSON(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		clean bool
	}{
		{"clean", `{"supplier":{"inn":"7701234567"},"buyer":{},"vat_rate":"20%","items":null}`, true},
		{"bad inn length", `{"supplier":{"inn":"77012345"},"buyer":{},"vat_rate":"20%","items":null}`, false},
		{"bad date shape", `{"document_date":"2024-03-15","supplier":{},"buyer":{},"vat_rate":"20%","items":null}`, false},
		{"bad amount", `{"total_amount":"12 345,67","supplier":{},"buyer":{},"vat_rate":"20%","items":null}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues, err := validateRecordJSON([]byte(tt.json))
			if err != nil {
				t.Fatalf("validateRecordJSON: %v", err)
			}
			if tt.clean && len(issues) != 0 {
				t.Errorf("unexpected issues: %v", issues)
			}
			if !tt.clean && len(issues) == 0 {
				t.Error("expected issues, got none")
			}
		})
	}
}
