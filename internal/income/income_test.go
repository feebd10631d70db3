package income

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmaura/finscore/internal/config"
	lt "github.com/bitmaura/finscore/internal/ledger/ledgertest"
	"github.com/bitmaura/finscore/internal/model"
)

func salariedLedger() []model.Transaction {
	return []model.Transaction{
		lt.Credit("2024-01-01", "SALARY FROM ACME CORP", "50000"),
		lt.Debit("2024-01-05", "RENT", "15000"),
		lt.Credit("2024-02-01", "SALARY FROM ACME CORP", "50000"),
		lt.Debit("2024-02-05", "RENT", "15000"),
		lt.Credit("2024-03-01", "SALARY FROM ACME CORP", "50000"),
		lt.Debit("2024-03-05", "RENT", "15000"),
		lt.Credit("2024-04-01", "SALARY FROM ACME CORP", "52000"),
		lt.Debit("2024-04-05", "RENT", "15000"),
	}
}

func newVerifier() *Verifier {
	return New(config.Default().Dictionaries.Income, 0)
}

func TestVerifySalaried(t *testing.T) {
	res := newVerifier().Verify(salariedLedger(), decimal.NewFromInt(50000))

	assert.True(t, res.IsSalaried)
	assert.True(t, res.SalaryAccount)
	require.Len(t, res.SalaryCredits, 4)
	assert.Equal(t, "ACME CORP", res.Employer)
	assert.Equal(t, 100, res.SalaryConsistency)
	assert.Equal(t, 1, res.SalaryDay)
	assert.Equal(t, TrendStable, res.SalaryTrend)
	assert.Equal(t, "50500", res.AverageSalary.String())

	assert.Equal(t, 4, res.NormalizationMonths)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, SourceSalary, res.Sources[0].Type)
	assert.Equal(t, "50500", res.TotalMonthlyIncome.String())
	assert.InDelta(t, 100.0, res.PrimaryIncomePercentage, 1e-9)
	assert.InDelta(t, 20.0, res.DiversificationScore, 1e-9)

	require.NotNil(t, res.IncomeVariance)
	assert.InDelta(t, 1.0, *res.IncomeVariance, 1e-9)
	assert.Equal(t, StatusVerified, res.VerificationStatus)

	// Three of four credits are round multiples of 10,000.
	assert.Equal(t, 15, res.SuspicionScore)
	assert.Len(t, res.RedFlags, 1)
	assert.Contains(t, res.Recommendations, "Consistent salary credits support the declared income")
}

func TestVerifyDeclaredVariance(t *testing.T) {
	tests := []struct {
		declared int64
		status   string
	}{
		{50000, StatusVerified},
		{46000, StatusNeedsReview},
		{40000, StatusMismatch},
		{0, StatusVerified},
	}
	for _, tt := range tests {
		res := newVerifier().Verify(salariedLedger(), decimal.NewFromInt(tt.declared))
		assert.Equal(t, tt.status, res.VerificationStatus, "declared %d", tt.declared)
		if tt.declared == 0 {
			assert.Nil(t, res.IncomeVariance)
		}
	}
}

func TestVerifySuspicious(t *testing.T) {
	txns := []model.Transaction{
		lt.Credit("2024-01-06", "SALARY ACME", "45000"), // Saturday
		lt.Credit("2024-01-10", "CASH DEPOSIT", "30000"),
		lt.Debit("2024-01-12", "NEFT TO FRIEND", "20000"),
		lt.Credit("2024-01-15", "NEFT FROM FRIEND", "20050"),
	}
	res := newVerifier().Verify(txns, decimal.Zero)

	assert.False(t, res.IsSalaried)
	assert.Equal(t, 100, res.SuspicionScore)
	assert.Len(t, res.RedFlags, 3)
	assert.InDelta(t, 31.56, res.CashDepositRatio, 1e-9)
	assert.Equal(t, StatusSuspicious, res.VerificationStatus)
	assert.Contains(t, res.Recommendations, "No regular salary found; ask for ITR or GST returns as income proof")
}

func TestVerifyEmpty(t *testing.T) {
	res := newVerifier().Verify(nil, decimal.Zero)
	assert.False(t, res.IsSalaried)
	assert.Empty(t, res.Sources)
	assert.Zero(t, res.DiversificationScore)
	assert.Equal(t, TrendIrregular, res.SalaryTrend)
	assert.Equal(t, StatusVerified, res.VerificationStatus)
	assert.Equal(t, 1, res.NormalizationMonths)
}

func TestVerifyFixedWindow(t *testing.T) {
	res := New(config.Default().Dictionaries.Income, 6).Verify(salariedLedger(), decimal.Zero)
	assert.Equal(t, 6, res.NormalizationMonths)
	assert.Equal(t, "33666.67", res.TotalMonthlyIncome.String())
}

func TestConsistency(t *testing.T) {
	credit := func(date, amount string) SalaryCredit {
		d := lt.Date(date)
		return SalaryCredit{Date: d, Amount: lt.Dec(amount), DayOfMonth: d.Day()}
	}

	score, day, trend := consistency([]SalaryCredit{credit("2024-01-01", "50000"), credit("2024-01-28", "50000")})
	assert.Equal(t, 76, score)
	assert.Equal(t, 1, day)
	assert.Equal(t, TrendIrregular, trend)

	_, day, _ = consistency([]SalaryCredit{credit("2024-01-05", "100"), credit("2024-02-03", "100")})
	assert.Equal(t, 3, day, "ties go to the earlier day")

	score, _, trend = consistency([]SalaryCredit{
		credit("2024-01-01", "60000"), credit("2024-02-01", "50000"), credit("2024-03-01", "40000"),
	})
	assert.Equal(t, 76, score)
	assert.Equal(t, TrendDecreasing, trend)

	score, _, trend = consistency([]SalaryCredit{credit("2024-01-01", "1")})
	assert.Zero(t, score)
	assert.Equal(t, TrendIrregular, trend)
}

func TestConsistencyUndatedCredits(t *testing.T) {
	dated := func(date string) SalaryCredit {
		d := lt.Date(date)
		return SalaryCredit{Date: d, Amount: lt.Dec("50000"), DayOfMonth: d.Day()}
	}
	undated := SalaryCredit{Amount: lt.Dec("50000")}

	tests := []struct {
		name    string
		credits []SalaryCredit
		score   int
		day     int
		trend   string
	}{
		{"undated skip day stats", []SalaryCredit{undated, undated, dated("2024-01-15"), dated("2024-02-15"), dated("2024-03-15")}, 100, 15, TrendStable},
		{"all undated", []SalaryCredit{undated, undated}, 68, 0, TrendIrregular},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, day, trend := consistency(tt.credits)
			assert.Equal(t, tt.score, score)
			assert.Equal(t, tt.day, day)
			assert.Equal(t, tt.trend, trend)
		})
	}
}

func TestSalaryCreditsUndated(t *testing.T) {
	txns := []model.Transaction{
		lt.Credit("2024-01-15", "SALARY ACME", "50000"),
		lt.Credit("", "SALARY ACME", "50000"),
		lt.Credit("2024-02-15", "SALARY ACME", "50000"),
	}
	res := newVerifier().Verify(txns, decimal.Zero)

	require.Len(t, res.SalaryCredits, 3)
	assert.Zero(t, res.SalaryCredits[0].DayOfMonth)
	assert.Equal(t, 15, res.SalaryCredits[1].DayOfMonth)
	assert.Equal(t, 15, res.SalaryDay)
	assert.Equal(t, 100, res.SalaryConsistency)
	assert.Equal(t, "50000", res.AverageSalary.String())
}

func TestVerifySixMonthSalary(t *testing.T) {
	var txns []model.Transaction
	for m := 1; m <= 6; m++ {
		txns = append(txns, lt.Credit(fmt.Sprintf("2024-%02d-01", m), "SALARY CREDIT ABC CORP", "50000"))
	}
	res := newVerifier().Verify(txns, decimal.Zero)

	assert.True(t, res.IsSalaried)
	assert.Greater(t, res.SalaryConsistency, 80)
	assert.Equal(t, TrendStable, res.SalaryTrend)
	assert.Equal(t, 1, res.SalaryDay)
	assert.Equal(t, "ABC CORP", res.Employer)
}

func TestCircularAndTemporary(t *testing.T) {
	txns := []model.Transaction{
		lt.Debit("2024-01-01", "OUT", "20000"),
		lt.Credit("2024-01-05", "BACK", "20050"),
		lt.Credit("2024-01-10", "LOAN DISB", "25000"),
		lt.Debit("2024-01-11", "TRANSFER", "24500"),
		lt.Debit("2024-01-20", "OUT AGAIN", "5000"),
		lt.Credit("2024-02-20", "LATE RETURN", "5000"),
	}
	assert.Equal(t, 1, circular(txns))
	assert.Equal(t, 1, temporary(txns))
}

func TestEmployer(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"SALARY FROM ACME CORP", "ACME CORP"},
		{"SAL CR GLOBEX & CO", "GLOBEX & CO"},
		{"INITECH SALARY JAN", "INITECH"},
		{"12345", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, employer(tt.desc), tt.desc)
	}
}
