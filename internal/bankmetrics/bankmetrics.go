// Package bankmetrics computes account-level statement metrics: totals,
// recurring descriptions and the EMI burden on salary.
package bankmetrics

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/config"
	"github.com/bitmaura/finscore/internal/keywords"
	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/model"
)

// descriptionKeyLen is how many runes of a normalized description group
// recurring transactions.
const descriptionKeyLen = 48

const (
	emiRiskWeight   = 60
	returnPenalty   = 5
	maxMetricsScore = 100
)

// Totals are the flows and balance range of the whole ledger.
type Totals struct {
	Credits            decimal.Decimal `json:"total_credits"`
	Debits             decimal.Decimal `json:"total_debits"`
	Count              int             `json:"count"`
	MinBalance         decimal.Decimal `json:"min_balance"`
	MaxBalance         decimal.Decimal `json:"max_balance"`
	SalaryCredits      decimal.Decimal `json:"salary_credits"`
	EMIDebits          decimal.Decimal `json:"emi_debits"`
	ATMWithdrawals     decimal.Decimal `json:"atm_withdrawals"`
	ChequeReturns      int             `json:"cheque_returns"`
	ChequeReturnAmount decimal.Decimal `json:"cheque_return_amount"`
}

// Recurring is a description seen often enough to look scheduled.
type Recurring struct {
	Description string          `json:"description"`
	Count       int             `json:"count"`
	Credits     decimal.Decimal `json:"credits"`
	Debits      decimal.Decimal `json:"debits"`
}

// Metrics is the output of Compute.
type Metrics struct {
	Totals           Totals      `json:"totals"`
	Recurring        []Recurring `json:"recurring"`
	EMIToIncomeRatio *float64    `json:"emi_to_income_ratio"` // nil without salary credits
	RiskScore        int         `json:"risk_score"`
	ComplianceScore  int         `json:"compliance_score"`
}

// Calculator computes bank metrics. It is read-only after New.
type Calculator struct {
	salary       *keywords.Matcher
	emi          *keywords.Matcher
	atm          *keywords.Matcher
	chequeReturn *keywords.Matcher
	minRecurring int
	topRecurring int
}

// New compiles the bank metric dictionaries.
func New(cfg config.Bank) *Calculator {
	return &Calculator{
		salary:       keywords.New(cfg.SalaryKeywords),
		emi:          keywords.New(cfg.EMIKeywords),
		atm:          keywords.New(cfg.ATMKeywords),
		chequeReturn: keywords.New(cfg.ChequeReturnKeywords),
		minRecurring: cfg.MinRecurring,
		topRecurring: cfg.TopRecurring,
	}
}

// Compute derives the metrics of txns.
func (c *Calculator) Compute(txns []model.Transaction) Metrics {
	m := Metrics{
		Totals:    c.totals(txns),
		Recurring: c.recurring(txns),
	}

	risk := float64(m.Totals.ChequeReturns * returnPenalty)
	if m.Totals.SalaryCredits.IsPositive() {
		ratio := ledger.Float(m.Totals.EMIDebits.Div(m.Totals.SalaryCredits).Round(4))
		m.EMIToIncomeRatio = &ratio
		risk += ratio * emiRiskWeight
	}
	m.RiskScore = int(math.Round(math.Min(maxMetricsScore, math.Max(0, risk))))
	m.ComplianceScore = max(0, maxMetricsScore-m.Totals.ChequeReturns*returnPenalty)
	return m
}

func (c *Calculator) totals(txns []model.Transaction) Totals {
	var t Totals
	for i, txn := range txns {
		d := normalize(txn.Description)
		t.Credits = t.Credits.Add(txn.Credit)
		t.Debits = t.Debits.Add(txn.Debit)
		t.Count++
		if i == 0 || txn.Balance.LessThan(t.MinBalance) {
			t.MinBalance = txn.Balance
		}
		if i == 0 || txn.Balance.GreaterThan(t.MaxBalance) {
			t.MaxBalance = txn.Balance
		}
		if c.salary.Contains(d) {
			t.SalaryCredits = t.SalaryCredits.Add(txn.Credit)
		}
		// Whole words only: "premium" and "chemist" are not EMIs.
		if c.emi.ContainsWord(d) {
			t.EMIDebits = t.EMIDebits.Add(txn.Debit)
		}
		if c.atm.Contains(d) {
			t.ATMWithdrawals = t.ATMWithdrawals.Add(txn.Debit)
		}
		if c.chequeReturn.Contains(d) {
			t.ChequeReturns++
			t.ChequeReturnAmount = t.ChequeReturnAmount.Add(txn.Amount())
		}
	}
	return t
}

// recurring groups txns by the leading runes of their normalized
// description and ranks the groups by total flow.
func (c *Calculator) recurring(txns []model.Transaction) []Recurring {
	groups := make(map[string]*Recurring)
	for _, t := range txns {
		key := normalize(t.Description)
		if r := []rune(key); len(r) > descriptionKeyLen {
			key = string(r[:descriptionKeyLen])
		}
		g, ok := groups[key]
		if !ok {
			g = &Recurring{Description: key}
			groups[key] = g
		}
		g.Count++
		g.Credits = g.Credits.Add(t.Credit)
		g.Debits = g.Debits.Add(t.Debit)
	}

	out := []Recurring{}
	for _, g := range groups {
		if g.Count >= c.minRecurring {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		fi, fj := out[i].Credits.Add(out[i].Debits), out[j].Credits.Add(out[j].Debits)
		if !fi.Equal(fj) {
			return fi.GreaterThan(fj)
		}
		return out[i].Description < out[j].Description
	})
	if len(out) > c.topRecurring {
		out = out[:c.topRecurring]
	}
	return out
}

// normalize lower-cases s and collapses whitespace runs.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
