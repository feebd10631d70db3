package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmaura/finscore/internal/config"
	lt "github.com/bitmaura/finscore/internal/ledger/ledgertest"
	"github.com/bitmaura/finscore/internal/model"
	"github.com/bitmaura/finscore/internal/summary"
)

func assess(txns []model.Transaction) RiskAssessment {
	return New(config.Default().Dictionaries.Risk).Assess(txns, summary.Calculate(txns))
}

func TestAssessHealthy(t *testing.T) {
	salary := func(date string) model.Transaction {
		return lt.WithCategory(lt.Credit(date, "SALARY ACME", "50000"), config.CategorySalary)
	}
	txns := lt.Balanced("20000",
		salary("2024-01-01"),
		lt.Debit("2024-01-10", "RENT", "15000"),
		salary("2024-02-01"),
		lt.Debit("2024-02-10", "RENT", "15000"),
		salary("2024-03-01"),
		lt.Debit("2024-03-10", "RENT", "20000"),
	)
	r := assess(txns)

	assert.Zero(t, r.RiskScore)
	assert.Equal(t, LevelLow, r.RiskLevel)
	assert.Equal(t, 100, r.FinancialHealthScore)
	assert.Equal(t, 100, r.CreditworthinessScore)
	assert.Empty(t, r.Factors)
	assert.Equal(t, 3, r.SalaryCredits)
	require.Len(t, r.Recommendations, 1)

	cf := r.Cashflow
	require.Len(t, cf.Months, 3)
	assert.Equal(t, "2024-01", cf.Months[0].Month)
	assert.Equal(t, "35000", cf.Months[0].Net.String())
	assert.Equal(t, "55000", cf.Months[0].EndBalance.String())
	assert.Equal(t, "100000", cf.NetCashflow.String())
	assert.Equal(t, 3, cf.PositiveMonths)
	assert.Zero(t, cf.NegativeMonths)
	assert.InDelta(t, 2357.02, cf.Volatility, 0.01)
}

func TestAssessRisky(t *testing.T) {
	txns := []model.Transaction{
		lt.Txn("2024-04-01", "SALARY", "", "10000", "10000"),
		lt.Txn("2024-04-02", "CHEQUE RETURN INSUFFICIENT FUNDS", "300", "", "9700"),
		lt.Txn("2024-04-03", "CHQ RET REFER DRAWER FROM SURESH", "300", "", "9400"),
		lt.Txn("2024-04-04", "PAYMENT STOPPED", "300", "", "9100"),
		lt.Txn("2024-04-05", "EMI PERSONAL LOAN", "7000", "", "2100"),
		lt.Txn("2024-04-06", "DREAM11 BET", "3000", "", "-900"),
	}
	r := assess(txns)

	var names []string
	for _, f := range r.Factors {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{FactorLowBalance, FactorExpenseRatio, FactorBounces, FactorLoanBurden, FactorGambling}, names)
	assert.Equal(t, 25, r.Factors[0].Points)
	assert.Equal(t, 10, r.Factors[1].Points)
	assert.Equal(t, 30, r.Factors[2].Points)
	assert.Equal(t, 15, r.Factors[3].Points)

	assert.Equal(t, 100, r.RiskScore)
	assert.Equal(t, LevelCritical, r.RiskLevel)
	assert.Zero(t, r.FinancialHealthScore)
	assert.Equal(t, 20, r.CreditworthinessScore)
	assert.InDelta(t, 70.0, r.LoanEMIRatio, 1e-9)
	assert.Len(t, r.Recommendations, 5)

	require.Len(t, r.ChequeReturns, 3)
	assert.Equal(t, ReasonInsufficientFunds, r.ChequeReturns[0].Reason)
	assert.Equal(t, "Unknown", r.ChequeReturns[0].Party)
	assert.Equal(t, ReasonReferToDrawer, r.ChequeReturns[1].Reason)
	assert.Equal(t, "SURESH", r.ChequeReturns[1].Party)
	assert.Equal(t, ReasonPaymentStopped, r.ChequeReturns[2].Reason)
	assert.Equal(t, "300", r.ChequeReturns[2].Amount.String())
}

func TestAssessATMAndThinSalary(t *testing.T) {
	txns := []model.Transaction{lt.Credit("2024-05-01", "NEFT CREDIT", "100000")}
	for i := 0; i < 22; i++ {
		txns = append(txns, lt.Debit("2024-05-02", "ATM WDL", "2000"))
	}
	for i := 0; i < 8; i++ {
		txns = append(txns, lt.Debit("2024-05-03", "GROCERY", "1000"))
	}
	txns = lt.Balanced("10000", txns...)
	r := assess(txns)

	assert.Equal(t, 22, r.ATMWithdrawals)
	assert.InDelta(t, 84.62, r.ATMExpenseShare, 1e-9)
	require.Len(t, r.Factors, 2)
	assert.Equal(t, FactorATMUsage, r.Factors[0].Name)
	assert.Equal(t, 15, r.Factors[0].Points)
	assert.Equal(t, FactorThinSalary, r.Factors[1].Name)
	assert.Equal(t, 25, r.RiskScore)
	assert.Equal(t, LevelMedium, r.RiskLevel)
	assert.Equal(t, 100, r.CreditworthinessScore)
}

func TestAssessEmpty(t *testing.T) {
	r := assess(nil)
	assert.Zero(t, r.RiskScore)
	assert.Equal(t, LevelLow, r.RiskLevel)
	assert.Equal(t, 100, r.CreditworthinessScore)
	assert.NotNil(t, r.Factors)
	assert.NotNil(t, r.ChequeReturns)
	assert.Empty(t, r.Cashflow.Months)
}

func TestLevel(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, LevelLow},
		{24, LevelLow},
		{25, LevelMedium},
		{50, LevelHigh},
		{75, LevelCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, level(tt.score), "%d", tt.score)
	}
}
