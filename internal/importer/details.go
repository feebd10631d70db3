package importer

import (
	"regexp"
	"strings"

	"github.com/bitmaura/finscore/internal/banks"
)

// AccountDetails is what the statement header says about the account.
type AccountDetails struct {
	BankName           string   `json:"bank_name,omitempty"`
	BankConfidence     int      `json:"bank_confidence,omitempty"`
	IFSC               string   `json:"ifsc,omitempty"`
	AccountNumber      string   `json:"account_number,omitempty"` // masked to the last four digits
	AccountHolder      string   `json:"account_holder,omitempty"`
	AccountType        string   `json:"account_type,omitempty"`
	Branch             string   `json:"branch,omitempty"`
	IsBusiness         bool     `json:"is_business"`
	BusinessIndicators []string `json:"business_indicators,omitempty"`
	PersonalIndicators []string `json:"personal_indicators,omitempty"`
}

var (
	ifscRe      = regexp.MustCompile(`\b([A-Z]{4}0[A-Z0-9]{6})\b`)
	accountNoRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i)A/C\s*(?:NO\.?|NUMBER)?[\s:.]*([\d][\d -]{7,20}\d)`),
		regexp.MustCompile(`(?i)ACCOUNT\s*(?:NO\.?|NUMBER)[\s:.]*([\d][\d -]{7,20}\d)`),
		regexp.MustCompile(`(?i)ACC\s*NO[\s:.]*([\d][\d -]{7,20}\d)`),
	}
	holderRe = regexp.MustCompile(`(?im)^\s*(?:account\s+holder|customer\s+name|name)\s*[:\-]\s*(?:(?:MR|MRS|MS|M/S)\.?\s+)?([A-Za-z][A-Za-z .&']{2,60}?)\s*$`)
	branchRe = regexp.MustCompile(`(?im)^\s*branch(?:\s+name)?\s*[:\-]\s*([^\r\n]{2,60})$`)

	accountTypes = []struct{ marker, name string }{
		{"cash credit", "Cash Credit"},
		{"overdraft", "Overdraft"},
		{"current account", "Current"},
		{"savings account", "Savings"},
		{"savings", "Savings"},
		{"current", "Current"},
	}

	businessIndicators = []string{
		"PVT LTD", "PRIVATE LIMITED", "LIMITED", "LLP", "CORPORATION", "ENTERPRISES", "TRADING",
		"INDUSTRIES", "MANUFACTURING", "SOLUTIONS", "TECHNOLOGIES", "CONSULTANCY", "TRADERS",
		"WHOLESALE", "DISTRIBUTORS", "AGENCY", "LOGISTICS", "M/S",
	}
	personalIndicators = []string{"SALARY", "PERSONAL", "INDIVIDUAL", "SAVINGS", "SALARY ACCOUNT", "JOINT ACCOUNT"}
)

// DetectAccountDetails reads the bank, IFSC, account number, holder, branch
// and account type from a statement's text.
func DetectAccountDetails(text string, directory *banks.Service) AccountDetails {
	var d AccountDetails
	upper := strings.ToUpper(text)

	if m := ifscRe.FindStringSubmatch(upper); m != nil {
		d.IFSC = m[1]
	}
	if directory != nil {
		if b, ok := directory.ByIFSC(d.IFSC); ok {
			d.BankName, d.BankConfidence = b.Name, 95
		} else if m, ok := directory.Detect(text); ok {
			d.BankName, d.BankConfidence = m.Bank.Name, m.Confidence
		}
	}

	for _, re := range accountNoRe {
		if m := re.FindStringSubmatch(text); m != nil {
			d.AccountNumber = maskAccount(m[1])
			break
		}
	}
	if m := holderRe.FindStringSubmatch(text); m != nil {
		d.AccountHolder = strings.TrimSpace(m[1])
	}
	if m := branchRe.FindStringSubmatch(text); m != nil {
		d.Branch = strings.TrimSpace(m[1])
	}

	lower := strings.ToLower(text)
	for _, at := range accountTypes {
		if strings.Contains(lower, at.marker) {
			d.AccountType = at.name
			break
		}
	}

	for _, ind := range businessIndicators {
		if strings.Contains(upper, ind) {
			d.BusinessIndicators = append(d.BusinessIndicators, ind)
		}
	}
	for _, ind := range personalIndicators {
		if strings.Contains(upper, ind) {
			d.PersonalIndicators = append(d.PersonalIndicators, ind)
		}
	}
	d.IsBusiness = len(d.BusinessIndicators) > len(d.PersonalIndicators)
	return d
}

// maskAccount keeps the last four digits of an account number.
func maskAccount(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if len(digits) <= 4 {
		return digits
	}
	return strings.Repeat("X", len(digits)-4) + digits[len(digits)-4:]
}
