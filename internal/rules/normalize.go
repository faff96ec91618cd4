// Package rules implements the rule-based field extraction over OCR or
// text-layer output of Russian accounting documents (счета, акты). All
// extractors are pure functions: they take text or table grids and return
// values or nil, never errors. Noise, missing labels and unrecognized
// layouts are routine inputs here, not failures.
package rules

import (
	"regexp"
	"strings"
)

var (
	reMultiSpace   = regexp.MustCompile(` {2,}`)
	reMultiNewline = regexp.MustCompile(`\n{3,}`)
)

// corrections is the ordered repair table for known PDF/OCR misreadings:
// confusable glyphs, broken currency abbreviations, Latin/Cyrillic
// look-alikes. Order is load-bearing: later entries may target substrings
// produced by earlier ones ("Ipy6" must be repaired before the bare "py6"
// rule fires on its tail).
var corrections = []struct{ from, to string }{
	{"Ng", "№"},
	{"N°", "№"},
	{"н/н", "№"},
	{"0ОО", "ООО"}, // leading zero instead of О
	{"ООO", "ООО"}, // trailing Latin O
	{"OOO", "ООО"}, // fully Latin
	{"3АО", "ЗАО"}, // digit 3 instead of З
	{"Ipy6", "руб"},
	{"py6", "руб"},
	{"руб:", "руб."},
	{"цена,руб", "цена руб"},
	{"Oт", "от"}, // Latin O
}

// Normalize cleans whitespace and repairs common OCR artifacts.
// Steps run in a fixed order: non-breaking spaces, space runs, newline
// runs, then the literal correction table.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reMultiNewline.ReplaceAllString(s, "\n")
	for _, c := range corrections {
		s = strings.ReplaceAll(s, c.from, c.to)
	}
	return strings.TrimSpace(s)
}
