package foir

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmaura/finscore/internal/config"
	lt "github.com/bitmaura/finscore/internal/ledger/ledgertest"
	"github.com/bitmaura/finscore/internal/model"
)

func calculator() *Calculator {
	return New(config.Default().Dictionaries.FOIR)
}

func borrower() []model.Transaction {
	txns := []model.Transaction{
		lt.Credit("2023-12-01", "SALARY DEC ACME", "40000"),
		lt.Credit("2024-03-10", "DIVIDEND INFY", "1400"),
		lt.Debit("2024-01-05", "EMI HOME LOAN HDFC", "15000"),
		lt.Debit("2024-02-05", "EMI HOME LOAN HDFC", "15050"),
		lt.Debit("2024-01-08", "CC PAYMENT HDFC", "3000"),
		lt.Debit("2024-01-10", "PERSONAL LOAN EMI BAJAJ FINSERV", "5000"),
		lt.Debit("2024-01-12", "LOAN REPAYMENT XYZ", "1000"),
		lt.Debit("2024-01-15", "SWIGGY ORDER", "700"),
	}
	for _, m := range []string{"01", "02", "03", "04", "05", "06"} {
		txns = append(txns, lt.Credit("2024-"+m+"-01", "SALARY ACME", "50000"))
	}
	return txns
}

func TestCalculate(t *testing.T) {
	a := calculator().Calculate(borrower(), Options{NormalizationMonths: 7})

	assert.Len(t, a.SalaryCredits, 7)
	assert.Equal(t, "50000", a.AverageMonthlyIncome.String())
	assert.Equal(t, "Average of last 6 salary credits", a.IncomeMethod)
	assert.Equal(t, "200", a.OtherIncome.String())
	assert.Equal(t, "50200", a.TotalMonthlyIncome.String())

	require.Len(t, a.ExistingLoans, 4)
	home := a.ExistingLoans[0]
	assert.Equal(t, LoanHome, home.Type)
	assert.Equal(t, "HDFC", home.Lender)
	assert.Equal(t, 95, home.Confidence)
	assert.Equal(t, "15000", home.MonthlyEMI.String())

	card := a.ExistingLoans[1]
	assert.Equal(t, LoanCreditCard, card.Type)
	assert.Equal(t, "HDFC Credit Card", card.Lender)
	assert.Equal(t, 90, card.Confidence)

	personal := a.ExistingLoans[2]
	assert.Equal(t, LoanPersonal, personal.Type)
	assert.Equal(t, "BAJAJ FINSERV", personal.Lender)

	other := a.ExistingLoans[3]
	assert.Equal(t, LoanOther, other.Type)
	assert.Equal(t, "Unknown Lender", other.Lender)
	assert.Equal(t, 50, other.Confidence)

	assert.Equal(t, "15000", a.HomeLoanEMI.String())
	assert.Equal(t, "5000", a.PersonalLoanEMI.String())
	assert.Equal(t, "3000", a.CreditCardPayments.String())
	assert.Equal(t, "1000", a.OtherEMIs.String())
	assert.Equal(t, "24000", a.TotalObligations.String())

	assert.InDelta(t, 47.81, a.FOIR, 1e-9)
	assert.Equal(t, StatusBorderline, a.Status)
	assert.Equal(t, "1100", a.MaxEligibleEMI.String())
	assert.True(t, a.RemainingCapacity.Equal(a.MaxEligibleEMI))
	assert.Equal(t, "83238", a.MaxLoanAmount.String())
	assert.Equal(t, DefaultTenureMonths, a.TenureMonths)
	assert.Equal(t, DefaultAnnualRatePercent, a.AnnualRatePercent)
	assert.Equal(t, IndustryStandardFOIR, a.IndustryStandardFOIR)

	assert.Contains(t, a.Warnings, "4 concurrent loans detected; consider consolidation")
	assert.NotContains(t, a.Warnings, "Credit card payments exceed 10% of income")
	assert.Equal(t, "Moderate risk borrower", a.BorrowerStatus)
}

func TestCalculateEmpty(t *testing.T) {
	a := calculator().Calculate(nil, Options{})
	assert.Zero(t, a.FOIR)
	assert.NotNil(t, a.ExistingLoans)
	assert.Empty(t, a.ExistingLoans)
	assert.NotNil(t, a.SalaryCredits)
	assert.True(t, a.MaxEligibleEMI.IsZero())
	assert.True(t, a.MaxLoanAmount.IsZero())
	assert.Equal(t, "Average of last 0 salary credits", a.IncomeMethod)
}

func TestCreditCardWarning(t *testing.T) {
	txns := []model.Transaction{
		lt.Credit("2024-01-01", "SALARY", "10000"),
		lt.Debit("2024-01-20", "CREDIT CARD PAYMENT SBI", "2000"),
	}
	a := calculator().Calculate(txns, Options{})
	require.Len(t, a.ExistingLoans, 1)
	assert.Equal(t, "SBI Credit Card", a.ExistingLoans[0].Lender)
	assert.InDelta(t, 20.0, a.FOIR, 1e-9)
	assert.Equal(t, StatusExcellent, a.Status)
	assert.Contains(t, a.Warnings, "Credit card payments exceed 10% of income")
	assert.Equal(t, "Strong borrower profile", a.BorrowerStatus)
}

func TestClassify(t *testing.T) {
	c := calculator()
	tests := []struct {
		desc       string
		typ        string
		lender     string
		confidence int
	}{
		{"EMI CAR LOAN MAHINDRA FINANCE", LoanAuto, "MAHINDRA FINANCE", 95},
		{"VEHICLE LOAN EMI", LoanAuto, "Unknown Lender", 80},
		{"CARD PAYMENT", LoanCreditCard, "Credit Card", 90},
		{"EDUCATION LOAN EMI CREDILA", LoanEducation, "CREDILA", 95},
		{"MUDRA LOAN EMI", LoanBusiness, "MUDRA", 95},
		{"HOUSING LOAN EMI", LoanHome, "Unknown Lender", 80},
		{"LOAN EMI", LoanOther, "Unknown Lender", 50},
	}
	for _, tt := range tests {
		got := c.classify(lt.Debit("2024-01-01", tt.desc, "100"))
		assert.Equal(t, tt.typ, got.Type, tt.desc)
		assert.Equal(t, tt.lender, got.Lender, tt.desc)
		assert.Equal(t, tt.confidence, got.Confidence, tt.desc)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		foir float64
		want string
	}{
		{0, StatusExcellent},
		{24.99, StatusExcellent},
		{25, StatusGood},
		{40, StatusBorderline},
		{50, StatusHighRisk},
		{59.99, StatusHighRisk},
		{60, StatusUnacceptable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, status(tt.foir), "%v", tt.foir)
	}
}

func TestMaxLoanAmount(t *testing.T) {
	emi := decimal.NewFromInt(10000)
	assert.Equal(t, "756711", MaxLoanAmount(emi, 120, 10).String())
	assert.Equal(t, "112550", MaxLoanAmount(emi, 12, 12).String())
	assert.Equal(t, "120000", MaxLoanAmount(emi, 12, 0).String())
	assert.True(t, MaxLoanAmount(decimal.Zero, 120, 10).IsZero())
}
