// Package ledgertest builds transaction fixtures for tests.
package ledgertest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/model"
)

// Txn builds a transaction. date is "2006-01-02" or "" for undated; empty
// amounts are zero.
func Txn(date, desc, debit, credit, balance string) model.Transaction {
	t := model.Transaction{
		Description: desc,
		Debit:       Dec(debit),
		Credit:      Dec(credit),
		Balance:     Dec(balance),
	}
	if date != "" {
		t.Date = Date(date)
		t.RawDate = date
	}
	return t
}

// Credit builds a dated credit with a zero balance.
func Credit(date, desc, amount string) model.Transaction {
	return Txn(date, desc, "", amount, "")
}

// Debit builds a dated debit with a zero balance.
func Debit(date, desc, amount string) model.Transaction {
	return Txn(date, desc, amount, "", "")
}

// WithCategory sets the category on a fixture.
func WithCategory(t model.Transaction, category string) model.Transaction {
	t.Category = category
	t.Confidence = 1
	return t
}

// Date parses "2006-01-02" or panics.
func Date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// Dec parses a decimal, treating "" as zero.
func Dec(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	return decimal.RequireFromString(s)
}

// Balanced builds a ledger whose balances run continuously from opening.
func Balanced(opening string, txns ...model.Transaction) []model.Transaction {
	bal := Dec(opening)
	out := make([]model.Transaction, len(txns))
	for i, t := range txns {
		bal = bal.Add(t.Credit).Sub(t.Debit)
		t.Balance = bal
		out[i] = t
	}
	return out
}
