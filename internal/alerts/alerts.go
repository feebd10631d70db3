// Package alerts flags individual transactions an underwriter must look at.
package alerts

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/config"
	"github.com/bitmaura/finscore/internal/id"
	"github.com/bitmaura/finscore/internal/keywords"
	"github.com/bitmaura/finscore/internal/model"
)

// Alert types.
const (
	TypeLowBalance   = "Low Balance"
	TypeLargeCash    = "Large Cash Withdrawal"
	TypeChequeBounce = "Cheque Bounce"
)

// Severities, most severe first.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Impact areas.
const (
	ImpactFinancial   = "Financial"
	ImpactCreditScore = "Credit Score"
	ImpactCompliance  = "Compliance"
)

// RedAlert is one flagged transaction.
type RedAlert struct {
	ID                   string          `json:"id"`
	Type                 string          `json:"type"`
	Severity             string          `json:"severity"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	Amount               decimal.Decimal `json:"amount"`
	Date                 time.Time       `json:"date"`
	AffectedTransactions int             `json:"affected_transactions"`
	Recommendation       string          `json:"recommendation"`
	Impact               string          `json:"impact"`
}

// Detector finds red alerts. It is read-only after New.
type Detector struct {
	lowBalance decimal.Decimal
	largeCash  decimal.Decimal
	cash       *keywords.Matcher
	bounce     *keywords.Matcher
}

// New builds a Detector from the alert thresholds and keyword lists.
func New(cfg config.Alerts) *Detector {
	return &Detector{
		lowBalance: decimal.NewFromFloat(cfg.LowBalance),
		largeCash:  decimal.NewFromFloat(cfg.LargeCashWithdrawal),
		cash:       keywords.New(cfg.CashKeywords),
		bounce:     keywords.New(cfg.BounceKeywords),
	}
}

// Detect returns one alert per triggering transaction and rule, in ledger
// order. Repeated triggers are not merged.
func (d *Detector) Detect(txns []model.Transaction) []RedAlert {
	out := []RedAlert{}
	add := func(a RedAlert, t model.Transaction) {
		a.ID = id.FormatAlertID(len(out) + 1)
		a.Date = t.Date
		a.AffectedTransactions = 1
		out = append(out, a)
	}

	for _, t := range txns {
		if t.Balance.LessThan(d.lowBalance) {
			sev := SeverityHigh
			if t.Balance.IsNegative() {
				sev = SeverityCritical
			}
			add(RedAlert{
				Type:           TypeLowBalance,
				Severity:       sev,
				Title:          "Balance below minimum",
				Description:    fmt.Sprintf("Balance fell to ₹%s after %q", t.Balance.StringFixed(2), t.Description),
				Amount:         t.Balance,
				Recommendation: "Verify the applicant keeps a buffer for upcoming EMIs",
				Impact:         ImpactFinancial,
			}, t)
		}
		if t.IsDebit() && t.Debit.GreaterThan(d.largeCash) && d.cash.Contains(t.Description) {
			add(RedAlert{
				Type:           TypeLargeCash,
				Severity:       SeverityMedium,
				Title:          "Large cash withdrawal",
				Description:    fmt.Sprintf("Cash withdrawal of ₹%s: %q", t.Debit.StringFixed(2), t.Description),
				Amount:         t.Debit,
				Recommendation: "Ask for the purpose of the withdrawal",
				Impact:         ImpactCompliance,
			}, t)
		}
		if d.bounce.Contains(t.Description) {
			add(RedAlert{
				Type:           TypeChequeBounce,
				Severity:       SeverityCritical,
				Title:          "Cheque bounce",
				Description:    fmt.Sprintf("Returned instrument: %q", t.Description),
				Amount:         t.Amount(),
				Recommendation: "Obtain an explanation for the return and check for repeat bounces",
				Impact:         ImpactCreditScore,
			}, t)
		}
	}
	return out
}

// AlertStatistics counts alerts by severity and type.
type AlertStatistics struct {
	Total            int            `json:"total"`
	Critical         int            `json:"critical"`
	High             int            `json:"high"`
	Medium           int            `json:"medium"`
	Low              int            `json:"low"`
	ByType           map[string]int `json:"by_type"`
	MostCommonImpact string         `json:"most_common_impact"`
}

// Statistics summarizes alerts. MostCommonImpact is "None" when there are no
// alerts; ties go to the alphabetically first impact.
func Statistics(alerts []RedAlert) AlertStatistics {
	s := AlertStatistics{Total: len(alerts), ByType: make(map[string]int), MostCommonImpact: "None"}
	impacts := make(map[string]int)
	for _, a := range alerts {
		switch a.Severity {
		case SeverityCritical:
			s.Critical++
		case SeverityHigh:
			s.High++
		case SeverityMedium:
			s.Medium++
		case SeverityLow:
			s.Low++
		}
		s.ByType[a.Type]++
		impacts[a.Impact]++
	}

	names := make([]string, 0, len(impacts))
	for k := range impacts {
		names = append(names, k)
	}
	sort.Strings(names)
	best := 0
	for _, n := range names {
		if impacts[n] > best {
			s.MostCommonImpact, best = n, impacts[n]
		}
	}
	return s
}
