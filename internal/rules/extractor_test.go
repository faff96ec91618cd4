package rules

import (
	"encoding/json"
	"testing"

	"github.com/akozyrev/invoice-scanner/internal/extract"
)

const sampleInvoice = `Счёт № 45/А от 01.06.2024
Поставщик ООО Ромашка ИНН 7701234567 КПП 770101001
р/с 40702810400000012345 в АО «Альфа-Банк» БИК 044525225
Покупатель ИП Иванов ИНН 500100200300
Всего с НДС 12345.67 руб
НДС 2056.11 руб`

func TestExtractor_EndToEnd(t *testing.T) {
	e := NewExtractor(nil)
	rec := e.ExtractFields(sampleInvoice, nil)

	checks := []struct {
		field string
		got   *string
		want  string
	}{
		{"document_type", rec.DocumentType, "Счёт"},
		{"document_number", rec.DocumentNumber, "45/А"},
		{"document_date", rec.DocumentDate, "01.06.2024"},
		{"supplier.name", rec.Supplier.Name, "ООО Ромашка"},
		{"supplier.inn", rec.Supplier.INN, "7701234567"},
		{"supplier.kpp", rec.Supplier.KPP, "770101001"},
		{"supplier.bik", rec.Supplier.BIK, "044525225"},
		{"supplier.account", rec.Supplier.Account, "40702810400000012345"},
		{"buyer.inn", rec.Buyer.INN, "500100200300"},
		{"total_amount", rec.TotalAmount, "12345.67"},
		{"vat_amount", rec.VATAmount, "2056.11"},
	}
	for _, c := range checks {
		if got := strVal(c.got); got != c.want {
			t.Errorf("%s = %q, want %q", c.field, got, c.want)
		}
	}
	if rec.VATRate != "20%" {
		t.Errorf("vat_rate = %q, want %q", rec.VATRate, "20%")
	}
}

func TestExtractor_EmptyInput(t *testing.T) {
	e := NewExtractor(nil)
	rec := e.ExtractFields("", nil)

	if rec == nil {
		t.Fatal("empty input must still produce a record")
	}
	for field, p := range map[string]*string{
		"document_type":   rec.DocumentType,
		"document_number": rec.DocumentNumber,
		"document_date":   rec.DocumentDate,
		"supplier.inn":    rec.Supplier.INN,
		"buyer.inn":       rec.Buyer.INN,
		"total_amount":    rec.TotalAmount,
		"vat_amount":      rec.VATAmount,
	} {
		if p != nil {
			t.Errorf("%s = %q, want nil on empty input", field, *p)
		}
	}
	if rec.VATRate != NoVATMarker {
		t.Errorf("vat_rate = %q, want %q", rec.VATRate, NoVATMarker)
	}
	if len(rec.Items) != 0 {
		t.Errorf("expected no items, got %d", len(rec.Items))
	}
}

// Without a recipient marker the second ИНН in the text seeds the buyer,
// as a documented best-effort fallback.
func TestExtractor_SecondINNFallback(t *testing.T) {
	text := "ООО Ромашка ИНН 7701234567\nООО Вектор ИНН 7812345678"
	rec := NewExtractor(nil).ExtractFields(text, nil)

	if got := strVal(rec.Supplier.INN); got != "7701234567" {
		t.Errorf("supplier.inn = %q, want %q", got, "7701234567")
	}
	if got := strVal(rec.Buyer.INN); got != "7812345678" {
		t.Errorf("buyer.inn = %q, want %q", got, "7812345678")
	}
}

// The JSON field names are the external contract of the whole service.
func TestRecord_JSONFieldNames(t *testing.T) {
	rec := NewExtractor(nil).ExtractFields(sampleInvoice, []extract.PageTables{
		{
			Page: 1,
			Tables: []extract.Grid{
				{
					{"№", "Наименование", "Кол-во", "Цена"},
					{"1", "Бумага", "10", "450.00"},
				},
			},
		},
	})
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{
		"document_type", "document_number", "document_date",
		"supplier", "buyer", "total_amount", "vat_amount", "vat_rate", "items",
	} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}
	supplier, _ := m["supplier"].(map[string]any)
	for _, key := range []string{"name", "inn", "kpp", "bik", "account"} {
		if _, ok := supplier[key]; !ok {
			t.Errorf("missing supplier key %q", key)
		}
	}
	items, _ := m["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item, _ := items[0].(map[string]any)
	for _, key := range []string{"name", "qty", "price"} {
		if _, ok := item[key]; !ok {
			t.Errorf("missing item key %q", key)
		}
	}
}
