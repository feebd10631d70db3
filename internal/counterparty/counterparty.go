// Package counterparty groups transactions by the party on the other side
// and classifies each relationship.
package counterparty

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/config"
	"github.com/bitmaura/finscore/internal/keywords"
	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/model"
)

// Frequency buckets by average days between transactions.
const (
	Daily     = "Daily"
	Weekly    = "Weekly"
	Monthly   = "Monthly"
	Quarterly = "Quarterly"
	Irregular = "Irregular"
)

// Relationship types.
const (
	Salary     = "Salary"
	Loan       = "Loan"
	Investment = "Investment"
	Utility    = "Utility"
	Vendor     = "Vendor"
	Customer   = "Customer"
	Unknown    = "Unknown"
)

// Risk levels.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

var (
	highAverage   = decimal.NewFromInt(50000)
	highOutflow   = decimal.NewFromInt(100000)
	lopsidedShare = 0.8
)

// Counterparty aggregates every transaction with one named party.
type Counterparty struct {
	Name             string          `json:"name"`
	TransactionCount int             `json:"transaction_count"`
	Received         decimal.Decimal `json:"received"`
	Sent             decimal.Decimal `json:"sent"`
	Net              decimal.Decimal `json:"net"`
	Average          decimal.Decimal `json:"average"`
	Frequency        string          `json:"frequency"`
	FirstDate        time.Time       `json:"first_date"`
	LastDate         time.Time       `json:"last_date"`
	Relationship     string          `json:"relationship"`
	RiskLevel        string          `json:"risk_level"`
}

// Volume is the total money moved in either direction.
func (c Counterparty) Volume() decimal.Decimal { return c.Received.Add(c.Sent) }

// Narration layouts carrying a payee name, tried in order. Each has one
// capture group.
var narrationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`MMT/IMPS/\d{12}/([A-Z][A-Z ]*)/`),
	regexp.MustCompile(`NEFT-[A-Z]{4,5}[A-Z0-9]*\d+-([^-]+)-`),
	regexp.MustCompile(`UPI/\d+/UPI/([A-Z0-9._@-]+)/`),
	regexp.MustCompile(`\b(?:UPI|NEFT|IMPS|RTGS)(?:[-/: ]+(?:\d+|P2[AMP]|CR|DR|IN|OUT))*[-/: ]+([A-Z][A-Z .&]{2,40}?)\s*(?:[-/@]|$)`),
}

var (
	capitalizedRun = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)\b`)
	channelPrefix  = regexp.MustCompile(`(?i)^(?:UPI|NEFT|IMPS|RTGS|NACH|ACH|ATM|POS|E-COM|DEBIT CARD|CREDIT CARD)\s*[-:/]\s*`)
	refSuffix      = regexp.MustCompile(`(?i)\s*(?:DR|CR|REF|TXN|TRANSACTION)\s*[:#]\s*\d+`)
	fillerPrefix   = regexp.MustCompile(`^(?:FROM|TO|BY)\s+`)
)

// Analyzer extracts and classifies counterparties. It is read-only after New.
type Analyzer struct {
	skip       *keywords.Matcher
	salary     *keywords.Matcher
	loan       *keywords.Matcher
	investment *keywords.Matcher
	utility    *keywords.Matcher
	cash       *keywords.Matcher
	gambling   *keywords.Matcher
}

// New compiles the counterparty dictionaries.
func New(cfg config.Counterparty) *Analyzer {
	return &Analyzer{
		skip:       keywords.New(cfg.SkipKeywords),
		salary:     keywords.New(cfg.SalaryKeywords),
		loan:       keywords.New(cfg.LoanKeywords),
		investment: keywords.New(cfg.InvestmentKeywords),
		utility:    keywords.New(cfg.UtilityKeywords),
		cash:       keywords.New(cfg.CashKeywords),
		gambling:   keywords.New(cfg.GamblingKeywords),
	}
}

// Analyze groups txns by counterparty name. Parties seen only once, or whose
// name could not be read, are left out. The result is ordered by volume.
func (a *Analyzer) Analyze(txns []model.Transaction) []Counterparty {
	groups := make(map[string][]model.Transaction)
	var order []string
	for _, t := range txns {
		if a.skip.Contains(t.Description) {
			continue
		}
		name := ExtractName(t.Description)
		if name == Unknown || len(name) < 3 {
			continue
		}
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], t)
	}

	out := make([]Counterparty, 0, len(order))
	for _, name := range order {
		group := groups[name]
		if len(group) < 2 {
			continue
		}
		out = append(out, a.build(name, group))
	}
	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := out[i].Volume(), out[j].Volume()
		if !vi.Equal(vj) {
			return vi.GreaterThan(vj)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (a *Analyzer) build(name string, txns []model.Transaction) Counterparty {
	sorted := append([]model.Transaction(nil), txns...)
	ledger.SortByDate(sorted)

	c := Counterparty{Name: name, TransactionCount: len(sorted)}
	for _, t := range sorted {
		c.Received = c.Received.Add(t.Credit)
		c.Sent = c.Sent.Add(t.Debit)
	}
	c.Net = c.Received.Sub(c.Sent)
	c.Average = c.Volume().Div(decimal.NewFromInt(int64(len(sorted)))).Round(2)
	c.FirstDate, c.LastDate, _ = ledger.Span(sorted)
	c.Frequency = frequency(sorted)
	c.Relationship = a.relationship(name, sorted)
	c.RiskLevel = a.risk(c, sorted)
	return c
}

// ExtractName reads the counterparty name from a narration. It returns
// Unknown when nothing usable remains.
func ExtractName(desc string) string {
	upper := strings.ToUpper(strings.TrimSpace(desc))
	for _, re := range narrationPatterns {
		if m := re.FindStringSubmatch(upper); m != nil {
			if name := cleanName(m[1]); len(name) >= 3 {
				return name
			}
		}
	}
	if m := capitalizedRun.FindStringSubmatch(desc); m != nil {
		return cleanName(strings.ToUpper(m[1]))
	}

	rest := refSuffix.ReplaceAllString(channelPrefix.ReplaceAllString(upper, ""), "")
	var words []string
	for _, w := range strings.Fields(rest) {
		if len(w) > 2 {
			words = append(words, w)
		}
		if len(words) == 3 {
			break
		}
	}
	if len(words) == 0 {
		return Unknown
	}
	return strings.Join(words, " ")
}

func cleanName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(fillerPrefix.ReplaceAllString(s, ""))
}

func frequency(sorted []model.Transaction) string {
	var dates []time.Time
	for _, t := range sorted {
		if t.IsDated() {
			dates = append(dates, t.Date)
		}
	}
	if len(dates) < 2 {
		return Irregular
	}
	avgDays := dates[len(dates)-1].Sub(dates[0]).Hours() / 24 / float64(len(dates)-1)
	switch {
	case avgDays <= 7:
		return Daily
	case avgDays <= 14:
		return Weekly
	case avgDays <= 40:
		return Monthly
	case avgDays <= 120:
		return Quarterly
	default:
		return Irregular
	}
}

func (a *Analyzer) relationship(name string, txns []model.Transaction) string {
	lower := strings.ToLower(name)
	switch {
	case a.salary.Contains(lower) || txns[0].Category == config.CategorySalary:
		return Salary
	case a.loan.Contains(lower) || (strings.Contains(lower, "bank") && allDebits(txns)):
		return Loan
	case a.investment.Contains(lower):
		return Investment
	case a.utility.Contains(lower):
		return Utility
	}

	debits := len(ledger.Debits(txns))
	credits := len(ledger.Credits(txns))
	switch {
	case float64(debits)/float64(len(txns)) > lopsidedShare:
		return Vendor
	case float64(credits)/float64(len(txns)) > lopsidedShare:
		return Customer
	default:
		return Unknown
	}
}

func allDebits(txns []model.Transaction) bool {
	for _, t := range txns {
		if !t.IsDebit() {
			return false
		}
	}
	return true
}

func (a *Analyzer) risk(c Counterparty, txns []model.Transaction) string {
	score := 0
	if c.Average.GreaterThan(highAverage) {
		score += 2
	}
	cashBased := false
	for _, t := range txns {
		if a.cash.Contains(t.Description) {
			cashBased = true
			break
		}
	}
	if cashBased && c.Sent.GreaterThan(highOutflow) {
		score += 3
	}
	if c.Frequency == Irregular && c.Sent.GreaterThan(highOutflow) {
		score += 2
	}
	if a.gambling.Contains(c.Name) {
		score += 5
	}
	switch {
	case score >= 5:
		return RiskHigh
	case score >= 3:
		return RiskMedium
	default:
		return RiskLow
	}
}
