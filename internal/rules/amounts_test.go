package rules

import "testing"

func TestCleanAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"spaces and currency", "1 234,56 руб", "1234.56"},
		{"plain", "12345.67", "12345.67"},
		{"comma decimal", "500,00", "500.00"},
		{"two separators collapse", "1.234,56", "1.23456"},
		{"three groups", "1.234.567,89", "1.23456789"},
		{"integer", "1000", "1000"},
		{"trailing period trimmed", "1000.", "1000"},
		{"no digits", "руб.", "<nil>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strVal(cleanAmount(tt.in)); got != tt.want {
				t.Errorf("cleanAmount(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractAmounts(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		total    string
		vat      string
		woVAT    string
		rate     string
	}{
		{
			name:  "vat-inclusive total preferred over bare",
			in:    "Итого: 10000.00\nИтого с НДС: 12000.00\nНДС: 2000.00",
			total: "12000.00",
			vat:   "2000.00",
			woVAT: "<nil>",
			rate:  "20%",
		},
		{
			name:  "amount due",
			in:    "Всего к оплате: 500,00 руб",
			total: "500.00",
			vat:   "<nil>",
			woVAT: "<nil>",
			rate:  "Без НДС",
		},
		{
			name:  "vat label inside total not mistaken for vat line",
			in:    "Всего с НДС 12345.67 руб\nНДС 2056.11 руб",
			total: "12345.67",
			vat:   "2056.11",
			woVAT: "<nil>",
			rate:  "20%",
		},
		{
			name:  "without vat",
			in:    "Сумма без НДС 9600.00\nНДС 2400.00\nИтого 12000.00",
			total: "12000.00",
			vat:   "2400.00",
			woVAT: "9600.00",
			rate:  "20%",
		},
		{
			name:  "explicit rate",
			in:    "НДС (10%) 500.00\nИтого 5500.00",
			total: "5500.00",
			vat:   "500.00",
			woVAT: "<nil>",
			rate:  "10%",
		},
		{
			name:  "no amounts at all",
			in:    "текст без сумм",
			total: "<nil>",
			vat:   "<nil>",
			woVAT: "<nil>",
			rate:  "Без НДС",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ExtractAmounts(tt.in)
			if got := strVal(a.Total); got != tt.total {
				t.Errorf("Total = %q, want %q", got, tt.total)
			}
			if got := strVal(a.VAT); got != tt.vat {
				t.Errorf("VAT = %q, want %q", got, tt.vat)
			}
			if got := strVal(a.WithoutVAT); got != tt.woVAT {
				t.Errorf("WithoutVAT = %q, want %q", got, tt.woVAT)
			}
			if a.Rate != tt.rate {
				t.Errorf("Rate = %q, want %q", a.Rate, tt.rate)
			}
		})
	}
}
