package rules

import (
	"regexp"
	"strings"

	"github.com/akozyrev/invoice-scanner/internal/invoice"
)

var (
	// \b after the digits rejects runs longer than the allowed length
	// instead of truncating them.
	reINN = regexp.MustCompile(`(?i)ИНН[:\s]*(\d{10,12})\b`)
	reKPP = regexp.MustCompile(`(?i)КПП[:\s]*(\d{9})\b`)

	reLegalForm = regexp.MustCompile(`(?i)(?:ООО|ПАО|ЗАО|ОАО|АО|ИП)[^\n,]+`)

	reAddress = regexp.MustCompile(`(?i)(?:\b\d{6},\s*)?` + // postal code
		`(?:[А-ЯЁа-яё][А-ЯЁа-яё\- ]+?,\s*){1,4}` + // region / city tokens
		`(?:ул\.?|улица|проспект|пр-т|пер\.?|переулок|ш\.?|шоссе)\s+[А-ЯЁа-яё0-9\- ]+[, ]*` +
		`(?:д\.?|дом)\s*\d+[А-Яа-я0-9\-]*`)

	reTrailingINN  = regexp.MustCompile(`(?i)ИНН[\s\d]*$`)
	reTrailingKPP  = regexp.MustCompile(`(?i)КПП[\s\d]*$`)
	reTrailingNums = regexp.MustCompile(`[\s\d]+$`)
	reInnerSpace   = regexp.MustCompile(`\s{2,}`)
)

// nameWindow bounds how far back from the ИНН label the name capture looks.
const nameWindow = 100

// ExtractParty pulls the tax identity, name and address of one counterparty
// from its text block. Every field is independent best-effort.
func ExtractParty(block string) invoice.Party {
	var p invoice.Party

	loc := reINN.FindStringSubmatchIndex(block)
	if loc != nil {
		inn := block[loc[2]:loc[3]]
		p.INN = &inn
	}
	p.KPP = extractKPP(block, loc)
	p.Name = extractName(block, loc)
	p.Address = extractAddress(block)
	return p
}

// extractKPP prefers a КПП right after the ИНН value (requisite lines list
// them together) and falls back to an independent search.
func extractKPP(block string, innLoc []int) *string {
	if innLoc != nil {
		end := innLoc[1] + 80
		if end > len(block) {
			end = len(block)
		}
		if m := reKPP.FindStringSubmatch(block[innLoc[1]:end]); m != nil {
			return &m[1]
		}
	}
	if m := reKPP.FindStringSubmatch(block); m != nil {
		return &m[1]
	}
	return nil
}

// extractName captures the organization name. With a located ИНН label the
// name is the text right before it (bounded window, same line); otherwise
// the first legal-entity-form token opens the capture.
func extractName(block string, innLoc []int) *string {
	if innLoc != nil {
		start := innLoc[0] - nameWindow
		if start < 0 {
			start = 0
		}
		window := block[start:innLoc[0]]
		if i := strings.LastIndexByte(window, '\n'); i >= 0 {
			window = window[i+1:]
		}
		// Prefer the span from the legal-form token: the window may still
		// carry leading labels ("Поставщик:") or address fragments.
		if m := reLegalForm.FindString(window); m != "" {
			window = m
		}
		if name := cleanOrgName(window); name != "" {
			return &name
		}
	}
	if m := reLegalForm.FindString(block); m != "" {
		if name := cleanOrgName(m); name != "" {
			return &name
		}
	}
	return nil
}

// cleanOrgName strips trailing label fragments, digit runs and separators
// left over from the requisite line, and collapses internal whitespace.
func cleanOrgName(name string) string {
	name = reTrailingINN.ReplaceAllString(name, "")
	name = reTrailingKPP.ReplaceAllString(name, "")
	name = reTrailingNums.ReplaceAllString(name, "")
	name = strings.Trim(name, " ,.:;")
	name = reInnerSpace.ReplaceAllString(name, " ")
	if len([]rune(name)) < 3 {
		return ""
	}
	return name
}

// extractAddress matches the regional-address shape: optional postal code,
// locality tokens, thoroughfare and building number.
func extractAddress(block string) *string {
	m := reAddress.FindString(block)
	if m == "" {
		return nil
	}
	addr := strings.TrimRight(strings.TrimSpace(m), ",.")
	return &addr
}
