package ocr

import (
	"regexp"
	"unicode"
)

var (
	reTaxID  = regexp.MustCompile(`(?i)ИНН[:\s]*\d{10,12}`)
	reVATRef = regexp.MustCompile(`(?i)НДС`)
	reDate   = regexp.MustCompile(`\d{1,2}[.\-/]\d{1,2}[.\-/]\d{4}`)
	reAmount = regexp.MustCompile(`\d+[.,]\d{2}\b`)
)

// heuristicConfidence scores OCR output by how much it looks like invoice
// text: requisite labels, VAT references, dates and money amounts each add
// weight on top of a low base.
func heuristicConfidence(txt string) float32 {
	score := float32(0.2)
	if reTaxID.MatchString(txt) {
		score += 0.25
	}
	if reVATRef.MatchString(txt) {
		score += 0.15
	}
	if reDate.MatchString(txt) {
		score += 0.15
	}
	if reAmount.MatchString(txt) {
		score += 0.15
	}
	if countLetters(txt) > 120 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// countLetters counts letter runes, ignoring whitespace and punctuation
// noise that a failed OCR pass still produces in quantity.
func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
