package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/akozyrev/invoice-scanner/constants"
)

var (
	// «Счёт № 45/А» first, then the looser «№ 45/А от …» form.
	docNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:сч[её]т|акт)\s*№\s*([A-Za-zА-Яа-яЁё0-9/-]+)`),
		regexp.MustCompile(`(?i)№\s*([A-Za-zА-Яа-яЁё0-9/-]+)\s+от`),
	}

	reNumericDate = regexp.MustCompile(`\b(\d{1,2})[.\-/](\d{1,2})[.\-/](\d{4})\b`)
	reWordDate    = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(января|февраля|марта|апреля|мая|июня|июля|августа|сентября|октября|ноября|декабря)\s+(\d{4})`)
)

var monthNumbers = map[string]int{
	"января": 1, "февраля": 2, "марта": 3, "апреля": 4,
	"мая": 5, "июня": 6, "июля": 7, "августа": 8,
	"сентября": 9, "октября": 10, "ноября": 11, "декабря": 12,
}

// Metadata is the document-level header information.
type Metadata struct {
	Type   *string
	Number *string
	Date   *string // DD.MM.YYYY
}

// ExtractMetadata pulls document type, number and date from the full text.
func ExtractMetadata(text string) Metadata {
	return Metadata{
		Type:   extractDocumentType(text),
		Number: extractDocumentNumber(text),
		Date:   extractDocumentDate(text),
	}
}

// extractDocumentType tests the lowered text against the ordered phrase
// list; specific phrases win over the generic «счёт». No phrase -> nil.
func extractDocumentType(text string) *string {
	lower := strings.ToLower(text)
	for _, tp := range constants.TypePhrases {
		if strings.Contains(lower, tp.Phrase) {
			t := string(tp.Type)
			return &t
		}
	}
	return nil
}

func extractDocumentNumber(text string) *string {
	for _, re := range docNumberPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return &m[1]
		}
	}
	return nil
}

// extractDocumentDate tries the numeric D.M.Y form first, then the spelled
// «D месяц Y» form, normalizing either to DD.MM.YYYY.
func extractDocumentDate(text string) *string {
	for _, m := range reNumericDate.FindAllStringSubmatch(text, -1) {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if d := formatDate(day, month, m[3]); d != nil {
			return d
		}
	}
	for _, m := range reWordDate.FindAllStringSubmatch(text, -1) {
		day, _ := strconv.Atoi(m[1])
		month := monthNumbers[strings.ToLower(m[2])]
		if d := formatDate(day, month, m[3]); d != nil {
			return d
		}
	}
	return nil
}

func formatDate(day, month int, year string) *string {
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return nil
	}
	d := fmt.Sprintf("%02d.%02d.%s", day, month, year)
	return &d
}
