package rules

import (
	"regexp"
	"strings"
)

var (
	reBIK = regexp.MustCompile(`(?i)БИК[:\s]*(\d{9})\b`)
	// Account labels and digits normally share a line, so the gap between
	// them must not cross a newline.
	reSettlement    = regexp.MustCompile(`(?i)(?:р/с|р\.с|расч[её]тный\s+сч[её]т)[^\d\n]*(\d{20})\b`)
	reCorrespondent = regexp.MustCompile(`(?i)(?:к/с|кор\.с|корр\.?\s*сч[её]т)[^\d\n]*(\d{20})\b`)
	reBankName      = regexp.MustCompile(`(?i)(?:^|\s)в\s+([^\n]*банк[^\n]*)`)
)

// BankDetails carries the payment requisites of the issuing party.
type BankDetails struct {
	BankName             *string
	BIK                  *string
	Account              *string
	CorrespondentAccount *string
}

// ExtractBankDetails pulls banking requisites out of the issuer block.
// The four lookups are independent: a missing routing code does not block
// account extraction and vice versa.
func ExtractBankDetails(block string) BankDetails {
	var d BankDetails
	if m := reBIK.FindStringSubmatch(block); m != nil {
		d.BIK = &m[1]
	}
	if m := reSettlement.FindStringSubmatch(block); m != nil {
		d.Account = &m[1]
	}
	if m := reCorrespondent.FindStringSubmatch(block); m != nil {
		d.CorrespondentAccount = &m[1]
	}
	if m := reBankName.FindStringSubmatch(block); m != nil {
		if name := cleanBankName(m[1]); name != "" {
			d.BankName = &name
		}
	}
	return d
}

// cleanBankName trims the captured line after the «в …» preposition: the
// requisite line often continues with БИК and account numbers.
func cleanBankName(name string) string {
	upper := strings.ToUpper(name)
	if i := strings.Index(upper, "БИК"); i >= 0 {
		name = name[:i]
	}
	return strings.Trim(name, " ,.;")
}
