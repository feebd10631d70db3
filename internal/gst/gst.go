// Package gst summarizes the GST payments and refunds found in a ledger.
package gst

import (
	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/config"
	"github.com/bitmaura/finscore/internal/keywords"
	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/model"
)

// Month is the GST activity of one calendar month.
type Month struct {
	Payments decimal.Decimal `json:"payments"`
	Refunds  decimal.Decimal `json:"refunds"`
}

// Metrics is the output of Compute. Payments are GST debits, refunds are GST
// credits. Undated transactions count toward the totals but not toward Months.
type Metrics struct {
	PaymentsCount      int              `json:"payments_count"`
	RefundsCount       int              `json:"refunds_count"`
	MonthsWithActivity int              `json:"months_with_activity"`
	TotalPayments      decimal.Decimal  `json:"total_payments"`
	TotalRefunds       decimal.Decimal  `json:"total_refunds"`
	Months             map[string]Month `json:"months"` // keyed YYYY-MM
}

// Analyzer finds GST transactions. It is read-only after New.
type Analyzer struct {
	match *keywords.Matcher
}

// New compiles the GST keywords.
func New(cfg config.GST) *Analyzer {
	return &Analyzer{match: keywords.New(cfg.Keywords)}
}

// IsGST reports whether a description names a GST payment or refund.
func (a *Analyzer) IsGST(description string) bool {
	return a.match.ContainsWord(description)
}

// Compute totals GST activity overall and per month.
func (a *Analyzer) Compute(txns []model.Transaction) Metrics {
	m := Metrics{Months: make(map[string]Month)}
	for _, e := range ledger.Normalize(txns) {
		if e.Amount.IsZero() || !a.IsGST(e.Description) {
			continue
		}
		key := e.MonthKey()
		month := m.Months[key]
		if e.Type == model.Debit {
			m.PaymentsCount++
			m.TotalPayments = m.TotalPayments.Add(e.Amount)
			month.Payments = month.Payments.Add(e.Amount)
		} else {
			m.RefundsCount++
			m.TotalRefunds = m.TotalRefunds.Add(e.Amount)
			month.Refunds = month.Refunds.Add(e.Amount)
		}
		if key != "" {
			m.Months[key] = month
		}
	}
	m.MonthsWithActivity = len(m.Months)
	return m
}
