package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	m := New([]string{"cash dep", "CDN", " ", ""})
	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Contains("BY CASH DEPOSIT BRANCH 0042"))
	assert.True(t, m.Contains("cdnx"))
	assert.False(t, m.Contains("NEFT CR ACME"))
	assert.Equal(t, "cash dep", m.First("Cash Deposit"))
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		terms []string
		text  string
		want  bool
	}{
		{[]string{"bet"}, "BET365 PAYMENT", false},
		{[]string{"bet"}, "UPI-BET-ONLINE", true},
		{[]string{"bet"}, "ALPHABET INC", false},
		{[]string{"od"}, "OD INTEREST", true},
		{[]string{"od"}, "FOOD PLAZA", false},
		{[]string{"sal-"}, "SAL-ACME CORP", true},
		{[]string{"12%club"}, "TRF TO 12%CLUB WALLET", true},
		{[]string{"emi"}, "LOAN EMI 04", true},
		{[]string{"emi"}, "PREMIUM PAID", false},
	}
	for _, tt := range tests {
		m := New(tt.terms)
		assert.Equal(t, tt.want, m.ContainsWord(tt.text), "%v in %q", tt.terms, tt.text)
	}
}

func TestScore(t *testing.T) {
	m := New([]string{"swiggy", "food", "rest"})
	// swiggy and food are whole words; "rest" only a substring of "restaurant".
	assert.Equal(t, 5, m.Score("SWIGGY FOOD RESTAURANT"))
	assert.Equal(t, 0, m.Score("AMAZON"))
	assert.Equal(t, 2, m.Count("swiggy restaurant"))
}
