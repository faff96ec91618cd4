package rules

import (
	"testing"

	"github.com/akozyrev/invoice-scanner/internal/extract"
)

func TestExtractItems(t *testing.T) {
	pages := []extract.PageTables{
		{
			Page: 1,
			Tables: []extract.Grid{
				{
					{"№", "Наименование товара", "Кол-во", "Ед.", "Цена", "Сумма"},
					{"1", "Бумага А4", "10", "шт", "450.00", "4500.00"},
					{"2", "Картридж", "2", "шт", "3200.00", "6400.00"},
				},
			},
		},
		{
			Page: 2,
			Tables: []extract.Grid{
				{
					{"№ п/п", "Товар", "Сумма"},
					{"3", "Доставка", "500.00"},
				},
			},
		},
	}

	items := ExtractItems(pages)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	first := items[0]
	if got := strVal(first.Name); got != "Бумага А4" {
		t.Errorf("items[0].Name = %q, want %q", got, "Бумага А4")
	}
	if got := strVal(first.Qty); got != "10" {
		t.Errorf("items[0].Qty = %q, want %q", got, "10")
	}
	if got := strVal(first.Unit); got != "шт" {
		t.Errorf("items[0].Unit = %q, want %q", got, "шт")
	}
	if got := strVal(first.Price); got != "450.00" {
		t.Errorf("items[0].Price = %q, want %q", got, "450.00")
	}
	if got := strVal(first.Total); got != "4500.00" {
		t.Errorf("items[0].Total = %q, want %q", got, "4500.00")
	}

	// Page order is preserved: the page-2 row comes last.
	last := items[2]
	if got := strVal(last.Name); got != "Доставка" {
		t.Errorf("items[2].Name = %q, want %q", got, "Доставка")
	}
	if last.Qty != nil || last.Unit != nil || last.Price != nil {
		t.Errorf("roles absent from the header must stay nil, got %+v", last)
	}
}

func TestExtractItems_SkipsNonItemTables(t *testing.T) {
	pages := []extract.PageTables{
		{
			Page: 1,
			Tables: []extract.Grid{
				// Requisites table: header has no numbering column.
				{
					{"Поставщик", "Покупатель"},
					{"ООО Ромашка", "ИП Иванов"},
				},
				// Header only, no data rows.
				{
					{"№", "Наименование"},
				},
			},
		},
	}
	if items := ExtractItems(pages); len(items) != 0 {
		t.Errorf("expected no items from non-item tables, got %d", len(items))
	}
}

func TestExtractItems_EmptyCellsStayNil(t *testing.T) {
	pages := []extract.PageTables{
		{
			Page: 1,
			Tables: []extract.Grid{
				{
					{"№", "Наименование", "Цена"},
					{"1", "Услуга", ""},
					{"", "", ""},
				},
			},
		},
	}
	items := ExtractItems(pages)
	if len(items) != 1 {
		t.Fatalf("fully empty row must be dropped, got %d items", len(items))
	}
	if items[0].Price != nil {
		t.Errorf("empty cell must stay nil, got %q", *items[0].Price)
	}
	if got := strVal(items[0].Name); got != "Услуга" {
		t.Errorf("Name = %q, want %q", got, "Услуга")
	}
}

func TestExtractItems_PriceBeatsUnitOnCombinedHeader(t *testing.T) {
	pages := []extract.PageTables{
		{
			Page: 1,
			Tables: []extract.Grid{
				{
					{"№", "Наименование", "Ед. изм.", "Цена за ед."},
					{"1", "Монтаж", "час", "1500.00"},
				},
			},
		},
	}
	items := ExtractItems(pages)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if got := strVal(items[0].Unit); got != "час" {
		t.Errorf("Unit = %q, want %q", got, "час")
	}
	if got := strVal(items[0].Price); got != "1500.00" {
		t.Errorf("Price = %q, want %q", got, "1500.00")
	}
}
