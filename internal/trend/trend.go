// Package trend compares recent category spending with history and flags
// outlying expenses.
package trend

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/model"
)

const (
	// changeThreshold is the percent move in a category that counts as a trend.
	changeThreshold = 20.0
	// minSamples is the fewest expenses Anomalies will reason about.
	minSamples = 10
	// sigmas is how far above the mean an expense must be to be flagged.
	sigmas = 3.0
)

// Trend is a category whose latest-month spend moved against its history.
type Trend struct {
	Category         string          `json:"category"`
	ChangePercentage float64         `json:"change_percentage"`
	CurrentSpending  decimal.Decimal `json:"current_spending"`
	AverageSpending  decimal.Decimal `json:"average_spending"`
}

// Anomaly is an unusually large expense.
type Anomaly struct {
	Transaction model.Transaction `json:"transaction"`
	Deviation   float64           `json:"deviation"` // standard deviations above the mean
	Message     string            `json:"message"`
}

// SpendingTrends compares each category's spend in the latest month with its
// mean over the earlier months. Categories with no history are not reported.
// At least two months of expenses are needed. The result is sorted by category.
func SpendingTrends(txns []model.Transaction) []Trend {
	byMonth := make(map[string]map[string]decimal.Decimal)
	for _, t := range txns {
		key := t.MonthKey()
		if key == "" || !t.IsDebit() {
			continue
		}
		cat := t.Category
		if cat == "" {
			cat = model.Uncategorized
		}
		if byMonth[key] == nil {
			byMonth[key] = make(map[string]decimal.Decimal)
		}
		byMonth[key][cat] = byMonth[key][cat].Add(t.Debit)
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	if len(months) < 2 {
		return []Trend{}
	}
	sort.Strings(months)
	last, earlier := months[len(months)-1], months[:len(months)-1]

	history := make(map[string]decimal.Decimal)
	for _, m := range earlier {
		for cat, amt := range byMonth[m] {
			history[cat] = history[cat].Add(amt)
		}
	}
	n := decimal.NewFromInt(int64(len(earlier)))

	out := []Trend{}
	for cat, current := range byMonth[last] {
		total, ok := history[cat]
		if !ok || !total.IsPositive() {
			continue
		}
		avg := total.Div(n)
		change := ledger.Float(current.Sub(avg).Div(avg).Mul(decimal.NewFromInt(100)))
		if math.Abs(change) <= changeThreshold {
			continue
		}
		out = append(out, Trend{
			Category:         cat,
			ChangePercentage: math.Round(change*100) / 100,
			CurrentSpending:  current,
			AverageSpending:  avg.Round(2),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// Anomalies flags expenses above mean + 3σ of all expenses, using the
// population standard deviation. Fewer than ten expenses yield nothing.
func Anomalies(txns []model.Transaction) []Anomaly {
	var amounts []float64
	for _, t := range txns {
		if t.IsDebit() {
			amounts = append(amounts, ledger.Float(t.Debit))
		}
	}
	if len(amounts) < minSamples {
		return []Anomaly{}
	}

	mean, sd := meanStdDev(amounts)
	limit := mean + sigmas*sd

	out := []Anomaly{}
	for _, t := range txns {
		if !t.IsDebit() {
			continue
		}
		amt := ledger.Float(t.Debit)
		if amt <= limit || sd == 0 {
			continue
		}
		out = append(out, Anomaly{
			Transaction: t,
			Deviation:   math.Round((amt-mean)/sd*100) / 100,
			Message:     fmt.Sprintf("Unusually large expense of ₹%s", t.Debit.StringFixed(2)),
		})
	}
	return out
}

func meanStdDev(xs []float64) (mean, sd float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		sd += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(sd / float64(len(xs)))
}
