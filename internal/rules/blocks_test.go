package rules

import (
	"strings"
	"testing"
)

func TestSplitBlocks(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantSupplier string
		wantBuyer    string
	}{
		{
			name:         "single marker",
			in:           "Поставщик ООО Ромашка Покупатель ИП Иванов",
			wantSupplier: "Поставщик ООО Ромашка ",
			wantBuyer:    "Покупатель ИП Иванов",
		},
		{
			name:         "case insensitive",
			in:           "ООО Ромашка ЗАКАЗЧИК: АО Вектор",
			wantSupplier: "ООО Ромашка ",
			wantBuyer:    "ЗАКАЗЧИК: АО Вектор",
		},
		{
			name:         "no marker",
			in:           "ООО Ромашка ИНН 7701234567",
			wantSupplier: "ООО Ромашка ИНН 7701234567",
			wantBuyer:    "",
		},
		{
			name:         "empty input",
			in:           "",
			wantSupplier: "",
			wantBuyer:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, b := SplitBlocks(tt.in)
			if s != tt.wantSupplier || b != tt.wantBuyer {
				t.Errorf("SplitBlocks(%q) = (%q, %q), want (%q, %q)",
					tt.in, s, b, tt.wantSupplier, tt.wantBuyer)
			}
		})
	}
}

// OCR sometimes emits glyphs whose lowercase form has a different encoded
// length (the Kelvin sign lowers to a one-byte 'k'). The split offset must
// stay a valid position in the original text anyway.
func TestSplitBlocks_NonFoldingGlyphsBeforeMarker(t *testing.T) {
	in := "Поставщик Kompany Ltd ИНН 7701234567 Покупатель ИП Иванов"
	s, b := SplitBlocks(in)
	if b != "Покупатель ИП Иванов" {
		t.Errorf("buyer block = %q, split point drifted", b)
	}
	if !strings.Contains(s, "Kompany Ltd") {
		t.Errorf("supplier block %q lost the original glyphs", s)
	}
}

// The leftmost marker wins regardless of its position in the marker list.
func TestSplitBlocks_LeftmostWins(t *testing.T) {
	in := "шапка Клиент АО Вектор данные Покупатель ИП Иванов"
	s, b := SplitBlocks(in)
	if !strings.HasPrefix(b, "Клиент") {
		t.Errorf("buyer block should start at the leftmost marker, got %q", b)
	}
	if strings.Contains(s, "Клиент") {
		t.Errorf("supplier block %q should end before the leftmost marker", s)
	}
}
