package summary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmaura/finscore/internal/importer"
	lt "github.com/bitmaura/finscore/internal/ledger/ledgertest"
	"github.com/bitmaura/finscore/internal/model"
)

func TestCalculate(t *testing.T) {
	txns := lt.Balanced("10000",
		lt.Credit("2024-01-01", "SALARY", "50000"),
		lt.Debit("2024-01-03", "SWIGGY", "450"),
		lt.Debit("2024-01-05", "EMI", "15000"),
	)

	s := Calculate(txns)
	assert.Equal(t, "50000", s.TotalIncome.String())
	assert.Equal(t, "15450", s.TotalExpenses.String())
	assert.Equal(t, "34550", s.NetCashFlow.String())
	assert.Equal(t, "10000", s.StartBalance.String())
	assert.Equal(t, "44550", s.EndBalance.String())
	assert.Equal(t, "60000", s.HighestBalance.String())
	assert.Equal(t, "44550", s.LowestBalance.String())
	assert.Equal(t, "50000", s.AverageCredit.String())
	assert.Equal(t, "7725", s.AverageDebit.String())
	assert.Equal(t, 3, s.TransactionCount)
	assert.Equal(t, 1, s.CreditCount)
	assert.Equal(t, 2, s.DebitCount)
	assert.InDelta(t, 69.1, s.SavingsRate, 1e-9)
	assert.InDelta(t, 30.9, s.ExpenseRatio(), 1e-9)
}

func TestCalculateNetCashFlowOnFixtures(t *testing.T) {
	read := func(t *testing.T, name string) string {
		t.Helper()
		data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
		require.NoError(t, err)
		return string(data)
	}
	tests := []struct {
		name  string
		parse func(t *testing.T) *importer.ParseResult
	}{
		{"hdfc", func(t *testing.T) *importer.ParseResult {
			res, err := importer.DefaultRegistry().Parse(read(t, "hdfc_statement.txt"), importer.Options{})
			require.NoError(t, err)
			return res
		}},
		{"generic", func(t *testing.T) *importer.ParseResult {
			res, err := importer.DefaultRegistry().Parse(read(t, "generic_statement.txt"), importer.Options{})
			require.NoError(t, err)
			return res
		}},
		{"spreadsheet", func(t *testing.T) *importer.ParseResult {
			rows, err := importer.ReadCSV(strings.NewReader(read(t, "statement.csv")))
			require.NoError(t, err)
			res, err := importer.ParseRows(rows, importer.Options{})
			require.NoError(t, err)
			return res
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.parse(t)
			require.NotEmpty(t, res.Transactions)

			s := Calculate(res.Transactions)
			assert.True(t, s.TotalIncome.Sub(s.TotalExpenses).Equal(s.NetCashFlow),
				"%s - %s != %s", s.TotalIncome, s.TotalExpenses, s.NetCashFlow)
			assert.Equal(t, len(res.Transactions), s.CreditCount+s.DebitCount)
		})
	}
}

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil)
	assert.True(t, s.TotalIncome.IsZero())
	assert.Equal(t, 0, s.TransactionCount)
	assert.Zero(t, s.ExpenseRatio())
}

func TestExpenseRatioNoIncome(t *testing.T) {
	s := Calculate([]model.Transaction{lt.Debit("2024-01-01", "rent", "100")})
	assert.Greater(t, s.ExpenseRatio(), 110.0)
}

func TestMonthly(t *testing.T) {
	var txns []model.Transaction
	for _, m := range []struct{ month, spend string }{
		{"2024-01", "5000"}, {"2024-02", "5000"}, {"2024-03", "5000"}, {"2024-04", "8000"}, {"2024-05", "8000"},
	} {
		txns = append(txns,
			lt.Credit(m.month+"-01", "SALARY", "10000"),
			lt.WithCategory(lt.Debit(m.month+"-10", "SHOPPING", m.spend), "Shopping"),
		)
	}
	txns = append(txns, lt.Debit("", "UNDATED", "10"))

	res := Monthly(txns)
	require.Len(t, res.Months, 5)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "2024-01", res.Months[0].Month)
	assert.Equal(t, "January 2024", res.Months[0].Label)
	assert.Equal(t, "5000", res.Months[0].NetCashFlow.String())
	assert.InDelta(t, 50.0, res.Months[0].SavingsRate, 1e-9)

	assert.Equal(t, Stable, res.Trends.Income)
	assert.Equal(t, Increasing, res.Trends.Expenses)
	assert.Equal(t, Decreasing, res.Trends.Savings)

	require.Len(t, res.Insights, 2)
	assert.Contains(t, res.Insights[0], "38.0%")
	assert.Contains(t, res.Insights[1], "₹3000.00")
}

func TestMonthlyTopCategories(t *testing.T) {
	txns := []model.Transaction{
		lt.Credit("2024-03-01", "SALARY", "90000"),
		lt.WithCategory(lt.Debit("2024-03-02", "a", "100"), "A"),
		lt.WithCategory(lt.Debit("2024-03-03", "b", "600"), "B"),
		lt.WithCategory(lt.Debit("2024-03-04", "c", "300"), "C"),
		lt.WithCategory(lt.Debit("2024-03-05", "d", "400"), "D"),
		lt.WithCategory(lt.Debit("2024-03-06", "e", "500"), "E"),
		lt.Debit("2024-03-07", "f", "200"),
	}

	res := Monthly(txns)
	require.Len(t, res.Months, 1)
	m := res.Months[0]
	require.Len(t, m.TopExpenseCategories, 5)
	var names []string
	for _, c := range m.TopExpenseCategories {
		names = append(names, c.Category)
	}
	assert.Equal(t, []string{"B", "E", "D", "C", model.Uncategorized}, names)
	assert.Equal(t, "SALARY", m.LargestTransaction.Description)
	assert.Equal(t, 7, m.TransactionCount)
	assert.Equal(t, MonthlyTrends{Income: Stable, Expenses: Stable, Savings: Stable}, res.Trends)
}

func TestMonthlyZeroBaseline(t *testing.T) {
	txns := []model.Transaction{
		lt.Debit("2024-01-05", "rent", "100"),
		lt.Debit("2024-02-05", "rent", "100"),
		lt.Debit("2024-03-05", "rent", "100"),
		lt.Credit("2024-04-01", "salary", "1000"),
	}
	res := Monthly(txns)
	assert.Equal(t, Stable, res.Trends.Income, "zero earlier income gives no trend")
}

func TestMonthlyEmpty(t *testing.T) {
	res := Monthly(nil)
	assert.Empty(t, res.Months)
	assert.Empty(t, res.Insights)
	assert.Equal(t, Stable, res.Trends.Expenses)
}
