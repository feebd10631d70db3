package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionTypeAndAmount(t *testing.T) {
	tests := []struct {
		name       string
		debit      string
		credit     string
		wantType   TxnType
		wantAmount string
	}{
		{"credit", "0", "2500.50", Credit, "2500.5"},
		{"debit", "120", "0", Debit, "120"},
		{"empty", "0", "0", Debit, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := Transaction{
				Debit:  decimal.RequireFromString(tt.debit),
				Credit: decimal.RequireFromString(tt.credit),
			}
			assert.Equal(t, tt.wantType, txn.Type())
			assert.True(t, decimal.RequireFromString(tt.wantAmount).Equal(txn.Amount()))
		})
	}
}

func TestMonthKey(t *testing.T) {
	txn := Transaction{Date: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2024-03", txn.MonthKey())
	assert.True(t, txn.IsDated())

	assert.Equal(t, "", Transaction{RawDate: "31/02/2024"}.MonthKey())
	assert.False(t, Transaction{}.IsDated())
}
