// Package summary computes ledger-wide and per-month cash-flow figures.
package summary

import (
	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/model"
)

var hundred = decimal.NewFromInt(100)

// FinancialSummary is the ledger-wide cash-flow picture.
type FinancialSummary struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	NetCashFlow      decimal.Decimal `json:"net_cash_flow"`
	StartBalance     decimal.Decimal `json:"start_balance"`
	EndBalance       decimal.Decimal `json:"end_balance"`
	HighestBalance   decimal.Decimal `json:"highest_balance"`
	LowestBalance    decimal.Decimal `json:"lowest_balance"`
	AverageCredit    decimal.Decimal `json:"average_credit"`
	AverageDebit     decimal.Decimal `json:"average_debit"`
	CreditCount      int             `json:"credit_count"`
	DebitCount       int             `json:"debit_count"`
	TransactionCount int             `json:"transaction_count"`
	SavingsRate      float64         `json:"savings_rate"` // percent of income kept
}

// Calculate summarizes txns in statement order. The start balance is the
// first row's balance with that row's effect reversed.
func Calculate(txns []model.Transaction) FinancialSummary {
	var s FinancialSummary
	if len(txns) == 0 {
		return s
	}

	s.HighestBalance, s.LowestBalance = txns[0].Balance, txns[0].Balance
	for _, t := range txns {
		if t.IsCredit() {
			s.TotalIncome = s.TotalIncome.Add(t.Credit)
			s.CreditCount++
		}
		if t.IsDebit() {
			s.TotalExpenses = s.TotalExpenses.Add(t.Debit)
			s.DebitCount++
		}
		s.HighestBalance = decimal.Max(s.HighestBalance, t.Balance)
		s.LowestBalance = decimal.Min(s.LowestBalance, t.Balance)
	}

	first, last := txns[0], txns[len(txns)-1]
	s.TransactionCount = len(txns)
	s.NetCashFlow = s.TotalIncome.Sub(s.TotalExpenses)
	s.StartBalance = first.Balance.Sub(first.Credit).Add(first.Debit)
	s.EndBalance = last.Balance
	if s.CreditCount > 0 {
		s.AverageCredit = s.TotalIncome.Div(decimal.NewFromInt(int64(s.CreditCount))).Round(2)
	}
	if s.DebitCount > 0 {
		s.AverageDebit = s.TotalExpenses.Div(decimal.NewFromInt(int64(s.DebitCount))).Round(2)
	}
	s.SavingsRate = savingsRate(s.TotalIncome, s.NetCashFlow)
	return s
}

// ExpenseRatio returns expenses as a percentage of income. With no income it
// is 0, or 999 when there are expenses.
func (s FinancialSummary) ExpenseRatio() float64 {
	if !s.TotalIncome.IsPositive() {
		if s.TotalExpenses.IsPositive() {
			return 999
		}
		return 0
	}
	return ledger.Float(s.TotalExpenses.Div(s.TotalIncome).Mul(hundred))
}

func savingsRate(income, net decimal.Decimal) float64 {
	if !income.IsPositive() {
		return 0
	}
	return ledger.Float(net.Div(income).Mul(hundred).Round(2))
}
