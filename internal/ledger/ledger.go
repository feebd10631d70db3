// Package ledger holds the normalized transaction list shared by every
// analysis pass.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/model"
)

// Entry is the single-amount view of a Transaction: a direction plus the
// populated side.
type Entry struct {
	model.Transaction
	Type   model.TxnType
	Amount decimal.Decimal
}

// Normalize projects each transaction to an Entry.
func Normalize(txns []model.Transaction) []Entry {
	entries := make([]Entry, len(txns))
	for i, t := range txns {
		entries[i] = Entry{Transaction: t, Type: t.Type(), Amount: t.Amount()}
	}
	return entries
}

// Denormalize restores the two-sided form from Type and Amount.
func (e Entry) Denormalize() model.Transaction {
	t := e.Transaction
	t.Debit, t.Credit = decimal.Zero, decimal.Zero
	if e.Type == model.Credit {
		t.Credit = e.Amount
	} else {
		t.Debit = e.Amount
	}
	return t
}

// SortByDate stable-sorts txns by date, undated transactions first.
func SortByDate(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.Before(txns[j].Date)
	})
}

// Span returns the first and last dates among dated transactions.
func Span(txns []model.Transaction) (first, last time.Time, ok bool) {
	for _, t := range txns {
		if !t.IsDated() {
			continue
		}
		if !ok || t.Date.Before(first) {
			first = t.Date
		}
		if !ok || t.Date.After(last) {
			last = t.Date
		}
		ok = true
	}
	return first, last, ok
}

// MonthsCovered returns the inclusive number of calendar months between the
// first and last dated transaction, or 0 when nothing is dated.
func MonthsCovered(txns []model.Transaction) int {
	first, last, ok := Span(txns)
	if !ok {
		return 0
	}
	return (last.Year()-first.Year())*12 + int(last.Month()) - int(first.Month()) + 1
}

// NormalizationMonths returns override when positive, otherwise the months
// covered by txns, never less than 1.
func NormalizationMonths(txns []model.Transaction, override int) int {
	if override > 0 {
		return override
	}
	if n := MonthsCovered(txns); n > 0 {
		return n
	}
	return 1
}

// Credits returns the credit transactions in order.
func Credits(txns []model.Transaction) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if t.IsCredit() {
			out = append(out, t)
		}
	}
	return out
}

// Debits returns the debit transactions in order.
func Debits(txns []model.Transaction) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if t.IsDebit() {
			out = append(out, t)
		}
	}
	return out
}

// Float converts a decimal amount to float64 for statistics.
func Float(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
