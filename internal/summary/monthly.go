package summary

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/model"
)

// Direction of a month-over-month trend.
const (
	Increasing = "increasing"
	Decreasing = "decreasing"
	Stable     = "stable"
)

const (
	topCategories = 5
	recentMonths  = 3
	trendBand     = 10.0 // percent change that counts as a move
)

// CategoryAmount is one entry of a month's top expense categories.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// LargestTransaction is the month's biggest single movement.
type LargestTransaction struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

// MonthlySummary holds one calendar month of activity.
type MonthlySummary struct {
	Month                string             `json:"month"` // YYYY-MM
	Label                string             `json:"label"` // e.g. "January 2024"
	TotalIncome          decimal.Decimal    `json:"total_income"`
	TotalExpenses        decimal.Decimal    `json:"total_expenses"`
	NetCashFlow          decimal.Decimal    `json:"net_cash_flow"`
	HighestBalance       decimal.Decimal    `json:"highest_balance"`
	LowestBalance        decimal.Decimal    `json:"lowest_balance"`
	TopExpenseCategories []CategoryAmount   `json:"top_expense_categories"`
	LargestTransaction   LargestTransaction `json:"largest_transaction"`
	SavingsRate          float64            `json:"savings_rate"`
	TransactionCount     int                `json:"transaction_count"`
}

// MonthlyTrends compares the latest months against the earlier ones.
type MonthlyTrends struct {
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Savings  string `json:"savings"`
}

// MonthlyResult is the output of Monthly.
type MonthlyResult struct {
	Months   []MonthlySummary `json:"months"`
	Trends   MonthlyTrends    `json:"trends"`
	Insights []string         `json:"insights"`
	Skipped  int              `json:"skipped"` // undated rows left out of every month
}

// Monthly groups dated transactions by calendar month, oldest first.
func Monthly(txns []model.Transaction) MonthlyResult {
	groups := make(map[string][]model.Transaction)
	var res MonthlyResult
	for _, t := range txns {
		key := t.MonthKey()
		if key == "" {
			res.Skipped++
			continue
		}
		groups[key] = append(groups[key], t)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	res.Months = make([]MonthlySummary, 0, len(keys))
	for _, k := range keys {
		res.Months = append(res.Months, summarizeMonth(k, groups[k]))
	}
	res.Trends = monthlyTrends(res.Months)
	res.Insights = monthlyInsights(res.Months)
	return res
}

func summarizeMonth(key string, txns []model.Transaction) MonthlySummary {
	m := MonthlySummary{
		Month:            key,
		Label:            txns[0].Date.Format("January 2006"),
		HighestBalance:   txns[0].Balance,
		LowestBalance:    txns[0].Balance,
		TransactionCount: len(txns),
	}

	spend := make(map[string]decimal.Decimal)
	for _, t := range txns {
		m.TotalIncome = m.TotalIncome.Add(t.Credit)
		m.TotalExpenses = m.TotalExpenses.Add(t.Debit)
		m.HighestBalance = decimal.Max(m.HighestBalance, t.Balance)
		m.LowestBalance = decimal.Min(m.LowestBalance, t.Balance)

		if amt := t.Amount(); amt.GreaterThan(m.LargestTransaction.Amount) {
			m.LargestTransaction = LargestTransaction{Amount: amt, Description: t.Description, Date: t.Date}
		}
		if t.IsDebit() {
			cat := t.Category
			if cat == "" {
				cat = model.Uncategorized
			}
			spend[cat] = spend[cat].Add(t.Debit)
		}
	}
	m.NetCashFlow = m.TotalIncome.Sub(m.TotalExpenses)
	m.SavingsRate = savingsRate(m.TotalIncome, m.NetCashFlow)

	for cat, amt := range spend {
		m.TopExpenseCategories = append(m.TopExpenseCategories, CategoryAmount{Category: cat, Amount: amt})
	}
	sort.Slice(m.TopExpenseCategories, func(i, j int) bool {
		a, b := m.TopExpenseCategories[i], m.TopExpenseCategories[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Category < b.Category
	})
	if len(m.TopExpenseCategories) > topCategories {
		m.TopExpenseCategories = m.TopExpenseCategories[:topCategories]
	}
	return m
}

func monthlyTrends(months []MonthlySummary) MonthlyTrends {
	t := MonthlyTrends{Income: Stable, Expenses: Stable, Savings: Stable}
	if len(months) < 2 {
		return t
	}
	split := len(months) - recentMonths
	if split < 0 {
		split = 0
	}
	recent, older := months[split:], months[:split]

	pick := func(f func(MonthlySummary) decimal.Decimal) string {
		if len(older) == 0 {
			return Stable
		}
		return direction(meanOf(recent, f), meanOf(older, f))
	}
	t.Income = pick(func(m MonthlySummary) decimal.Decimal { return m.TotalIncome })
	t.Expenses = pick(func(m MonthlySummary) decimal.Decimal { return m.TotalExpenses })
	t.Savings = pick(func(m MonthlySummary) decimal.Decimal { return m.NetCashFlow })
	return t
}

func meanOf(months []MonthlySummary, f func(MonthlySummary) decimal.Decimal) float64 {
	if len(months) == 0 {
		return 0
	}
	sum := 0.0
	for _, m := range months {
		sum += ledger.Float(f(m))
	}
	return sum / float64(len(months))
}

func direction(recent, older float64) string {
	if older == 0 {
		return Stable
	}
	change := (recent - older) / older * 100
	switch {
	case change > trendBand:
		return Increasing
	case change < -trendBand:
		return Decreasing
	default:
		return Stable
	}
}

func monthlyInsights(months []MonthlySummary) []string {
	insights := []string{}
	if len(months) == 0 {
		return insights
	}

	rate := 0.0
	for _, m := range months {
		rate += m.SavingsRate
	}
	rate /= float64(len(months))
	switch {
	case rate > 20:
		insights = append(insights, fmt.Sprintf("Average savings rate of %.1f%% is healthy", rate))
	case rate < 0:
		insights = append(insights, "Spending exceeds income on average; expenses need to come down or income up")
	}

	recent := months[max(0, len(months)-recentMonths):]
	if len(recent) >= 2 {
		growth := recent[len(recent)-1].TotalExpenses.Sub(recent[0].TotalExpenses)
		if growth.IsPositive() {
			insights = append(insights, fmt.Sprintf("Monthly expenses rose by ₹%s over the last %d months", growth.StringFixed(2), len(recent)))
		}
	}

	var peaks []decimal.Decimal
	for _, m := range months {
		if m.HighestBalance.IsPositive() {
			peaks = append(peaks, m.HighestBalance)
		}
	}
	if len(peaks) > 0 {
		avg := decimal.Avg(peaks[0], peaks[1:]...).Round(2)
		insights = append(insights, fmt.Sprintf("Average peak monthly balance is ₹%s", avg.StringFixed(2)))
	}
	return insights
}
