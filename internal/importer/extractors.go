package importer

import (
	"regexp"

	"github.com/bitmaura/finscore/internal/banks"
	"github.com/bitmaura/finscore/internal/model"
)

// BankFormat is the date convention of one bank's statements.
type BankFormat struct {
	DateToken string   // regexp fragment matching the date column
	Layouts   []string // time.Parse layouts tried in order
}

// BankFormats maps directory codes to their statement date conventions.
var BankFormats = map[string]BankFormat{
	banks.HDFC:   {`\d{2}/\d{2}/\d{2,4}`, []string{"02/01/2006", "02/01/06"}},
	banks.ICICI:  {`\d{2}/\d{2}/\d{2,4}`, []string{"02/01/2006", "02/01/06"}},
	banks.SBI:    {`\d{2}-\d{2}-\d{4}`, []string{"02-01-2006"}},
	banks.Axis:   {`\d{2}-[A-Za-z]{3}-\d{4}`, []string{"02-Jan-2006"}},
	banks.Kotak:  {`\d{2}\s[A-Za-z]{3}\s\d{4}`, []string{"02 Jan 2006"}},
	banks.PNB:    {`\d{2}/\d{2}/\d{4}`, []string{"02/01/2006"}},
	banks.Canara: {`\d{2}-\d{2}-\d{4}`, []string{"02-01-2006"}},
}

// BankExtractor parses one bank's statement rows: date, description, one or
// two amounts and the running balance.
type BankExtractor struct {
	bank    banks.Bank
	pattern *regexp.Regexp
	layouts []string
}

// NewBankExtractor builds an extractor for bank using its date convention.
func NewBankExtractor(bank banks.Bank, f BankFormat) *BankExtractor {
	return &BankExtractor{
		bank:    bank,
		pattern: linePattern(f.DateToken, `.+?`, true),
		layouts: f.Layouts,
	}
}

// Bank returns the directory code.
func (e *BankExtractor) Bank() string { return e.bank.Code }

// Detect reports whether text carries the bank's statement marker.
func (e *BankExtractor) Detect(text string) bool { return e.bank.HasMarker(text) }

// Extract scans text line by line; lines that do not match are skipped.
func (e *BankExtractor) Extract(text string) ([]model.Transaction, error) {
	s := &lineScanner{patterns: []*regexp.Regexp{e.pattern}, layouts: e.layouts}
	return s.scan(text), nil
}

// GenericBank is the bank name reported by the fallback extractor.
const GenericBank = "GENERIC"

const genericDate = `\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}|\d{1,2}[- ][A-Za-z]{3}[- ]\d{2,4}`

var genericLayouts = []string{
	"2/1/2006", "2-1-2006", "2.1.2006",
	"2/1/06", "2-1-06", "2.1.06",
	"2-Jan-2006", "2 Jan 2006", "2-Jan-06", "2 Jan 06",
}

// GenericExtractor is the fallback for statements no bank extractor claims.
// It accepts looser dates and rows without a balance column, in which case
// the balance is carried forward from the previous row.
type GenericExtractor struct {
	withBalance    *regexp.Regexp
	withoutBalance *regexp.Regexp
}

// NewGenericExtractor builds the fallback extractor.
func NewGenericExtractor() *GenericExtractor {
	return &GenericExtractor{
		withBalance:    linePattern(genericDate, `.{1,200}?`, true),
		withoutBalance: linePattern(genericDate, `.{1,200}?`, false),
	}
}

// Bank returns GenericBank.
func (e *GenericExtractor) Bank() string { return GenericBank }

// Detect always accepts.
func (e *GenericExtractor) Detect(string) bool { return true }

// Extract scans text line by line, preferring rows that end in a balance.
func (e *GenericExtractor) Extract(text string) ([]model.Transaction, error) {
	s := &lineScanner{
		patterns: []*regexp.Regexp{e.withBalance, e.withoutBalance},
		layouts:  genericLayouts,
	}
	return s.scan(text), nil
}
