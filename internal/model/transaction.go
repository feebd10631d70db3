package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxnType is the direction of a transaction relative to the account holder.
type TxnType string

const (
	Credit TxnType = "credit"
	Debit  TxnType = "debit"
)

// Uncategorized is the category assigned when no rule scores high enough.
const Uncategorized = "Uncategorized"

// Transaction is one row of a bank statement.
type Transaction struct {
	Date        time.Time       `json:"date"` // zero when the statement date could not be parsed
	RawDate     string          `json:"raw_date,omitempty"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`  // zero = absent
	Credit      decimal.Decimal `json:"credit"` // zero = absent
	Balance     decimal.Decimal `json:"balance"`
	Category    string          `json:"category,omitempty"`
	Confidence  float64         `json:"confidence,omitempty"`
	JobID       string          `json:"job_id,omitempty"`
	UserID      string          `json:"user_id,omitempty"`
}

// Type returns Credit when the credit side is positive, otherwise Debit.
func (t Transaction) Type() TxnType {
	if t.Credit.IsPositive() {
		return Credit
	}
	return Debit
}

// Amount returns whichever side of the transaction is populated.
func (t Transaction) Amount() decimal.Decimal {
	if t.Credit.IsPositive() {
		return t.Credit
	}
	return t.Debit
}

// IsCredit reports whether money came in.
func (t Transaction) IsCredit() bool { return t.Credit.IsPositive() }

// IsDebit reports whether money went out.
func (t Transaction) IsDebit() bool { return t.Debit.IsPositive() }

// IsDated reports whether the statement date was parsed.
func (t Transaction) IsDated() bool { return !t.Date.IsZero() }

// MonthKey returns "YYYY-MM" for dated transactions, or "".
func (t Transaction) MonthKey() string {
	if t.Date.IsZero() {
		return ""
	}
	return t.Date.Format("2006-01")
}
