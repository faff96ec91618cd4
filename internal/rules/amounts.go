package rules

import (
	"regexp"
	"strings"
)

const (
	// DefaultVATRate is reported when a VAT amount was extracted but no
	// explicit rate was printed. A heuristic default, not a parsed value.
	DefaultVATRate = "20%"
	// NoVATMarker is reported when the document carries no VAT amount.
	NoVATMarker = "Без НДС"
)

var (
	// Total labels in preference order: the VAT-inclusive total beats the
	// amount-due line, which beats the bare totals.
	totalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:итого|всего)\s+с\s+НДС[^\d\n]*(\d[\d\s.,]*)`),
		regexp.MustCompile(`(?i)всего\s+к\s+оплате[^\d\n]*(\d[\d\s.,]*)`),
		regexp.MustCompile(`(?i)(?:итого|всего)[^\d\n]*(\d[\d\s.,]*)`),
	}
	reVAT        = regexp.MustCompile(`(?i)НДС(?:\s*\(?\s*\d{1,2}\s*%\s*\)?)?[^\d\n%]*(\d[\d\s.,]*)`)
	reWithoutVAT = regexp.MustCompile(`(?i)(?:итого|всего|сумма)\s+без\s+НДС[^\d\n]*(\d[\d\s.,]*)`)
	reVATRate    = regexp.MustCompile(`(?i)НДС[^\n%]*?(\d{1,2})\s*%`)

	reAmountJunk = regexp.MustCompile(`[^\d.,]`)
)

// Amounts is the monetary summary of the document.
type Amounts struct {
	Total      *string
	VAT        *string
	WithoutVAT *string
	Rate       string // always set: explicit rate, DefaultVATRate or NoVATMarker
}

// ExtractAmounts pulls the totals block from the full document text.
func ExtractAmounts(text string) Amounts {
	var a Amounts
	for _, re := range totalPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			a.Total = cleanAmount(m[1])
			break
		}
	}
	a.VAT = extractVAT(text)
	if m := reWithoutVAT.FindStringSubmatch(text); m != nil {
		a.WithoutVAT = cleanAmount(m[1])
	}
	a.Rate = extractVATRate(text, a.VAT != nil)
	return a
}

// extractVAT finds the VAT amount, skipping НДС occurrences that are part of
// a larger label («Итого с НДС», «Сумма без НДС») rather than a VAT line.
func extractVAT(text string) *string {
	for _, loc := range reVAT.FindAllStringSubmatchIndex(text, -1) {
		if vatLabelIsPartOfTotal(text, loc[0]) {
			continue
		}
		return cleanAmount(text[loc[2]:loc[3]])
	}
	return nil
}

func vatLabelIsPartOfTotal(text string, start int) bool {
	prefix := strings.ToLower(strings.TrimRight(text[:start], " \t"))
	return strings.HasSuffix(prefix, " с") ||
		strings.HasSuffix(prefix, "(с") ||
		strings.HasSuffix(prefix, "без")
}

// extractVATRate prefers a percentage printed near the НДС label; without
// one it falls back to DefaultVATRate when a VAT amount exists, or to the
// no-VAT marker when it does not.
func extractVATRate(text string, haveVAT bool) string {
	if m := reVATRate.FindStringSubmatch(text); m != nil {
		return m[1] + "%"
	}
	if haveVAT {
		return DefaultVATRate
	}
	return NoVATMarker
}

// cleanAmount reduces a captured numeric span to a canonical decimal string:
// every character that is not a digit, comma or period is dropped, commas
// become periods, and when more than one period remains the first one stays
// the decimal point and the remaining groups join the fractional part.
func cleanAmount(v string) *string {
	v = reAmountJunk.ReplaceAllString(v, "")
	v = strings.ReplaceAll(v, ",", ".")
	v = strings.Trim(v, ".")
	if v == "" {
		return nil
	}
	if parts := strings.Split(v, "."); len(parts) > 2 {
		v = parts[0] + "." + strings.Join(parts[1:], "")
	}
	return &v
}
