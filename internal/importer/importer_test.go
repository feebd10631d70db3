package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmaura/finscore/internal/banks"
	lt "github.com/bitmaura/finscore/internal/ledger/ledgertest"
	"github.com/bitmaura/finscore/internal/model"
)

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestHDFCStatement(t *testing.T) {
	text := readTestdata(t, "hdfc_statement.txt")

	res, err := DefaultRegistry().Parse(text, Options{JobID: "job-1", UserID: "user-9"})
	require.NoError(t, err)
	assert.Equal(t, banks.HDFC, res.Bank)
	require.Len(t, res.Transactions, 6)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, 1, res.Undated)

	salary := res.Transactions[0]
	assert.Equal(t, "SALARY JAN ACME TECHNOLOGIES PVT LTD", salary.Description)
	assert.Equal(t, "50000.00", salary.Credit.StringFixed(2))
	assert.True(t, salary.Debit.IsZero())
	assert.Equal(t, "2024-01-01", salary.Date.Format("2006-01-02"))
	assert.Equal(t, "job-1", salary.JobID)
	assert.Equal(t, "user-9", salary.UserID)

	// Single amounts resolve against the running balance.
	assert.Equal(t, model.Debit, res.Transactions[1].Type())
	assert.Equal(t, "450.00", res.Transactions[1].Debit.StringFixed(2))
	assert.Equal(t, model.Debit, res.Transactions[3].Type())

	// Two amount columns are debit then credit.
	rent := res.Transactions[4]
	assert.Equal(t, "12000.00", rent.Debit.StringFixed(2))
	assert.True(t, rent.Credit.IsZero())
	assert.Equal(t, "27550.00", rent.Balance.StringFixed(2))

	interest := res.Transactions[5]
	assert.False(t, interest.IsDated())
	assert.Equal(t, "31/02/24", interest.RawDate)
	assert.Equal(t, model.Credit, interest.Type())

	d := res.AccountDetails
	assert.Equal(t, "HDFC Bank", d.BankName)
	assert.Equal(t, "HDFC0001234", d.IFSC)
	assert.Equal(t, "XXXXXXXXXX6789", d.AccountNumber)
	assert.Equal(t, "RAHUL SHARMA", d.AccountHolder)
	assert.Equal(t, "MG ROAD BANGALORE", d.Branch)
	assert.Equal(t, "Savings", d.AccountType)
}

func TestGenericStatement(t *testing.T) {
	text := readTestdata(t, "generic_statement.txt")

	res, err := DefaultRegistry().Parse(text, Options{})
	require.NoError(t, err)
	assert.Equal(t, GenericBank, res.Bank)
	require.Len(t, res.Transactions, 4)

	tests := []struct {
		typ     model.TxnType
		amount  string
		balance string
	}{
		{model.Credit, "25000.00", "25000.00"},
		{model.Debit, "1250.50", "23749.50"},
		{model.Debit, "2000.00", "21749.50"},
		{model.Debit, "100.00", "21649.50"},
	}
	for i, tt := range tests {
		txn := res.Transactions[i]
		assert.Equal(t, tt.typ, txn.Type(), "row %d", i)
		assert.Equal(t, tt.amount, txn.Amount().StringFixed(2), "row %d", i)
		assert.Equal(t, tt.balance, txn.Balance.StringFixed(2), "row %d", i)
	}
	assert.Equal(t, "2024-02-07", res.Transactions[3].Date.Format("2006-01-02"))
}

func TestGenericSkipsLongLines(t *testing.T) {
	long := "01/01/2024 " + strings.Repeat("X", 1200) + " 100.00 100.00"
	txns, err := NewGenericExtractor().Extract(long + "\n02/01/2024 SHORT LINE 50.00 150.00")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "SHORT LINE", txns[0].Description)
}

func TestRoute(t *testing.T) {
	r := DefaultRegistry()
	tests := []struct {
		text string
		want string
	}{
		{"ICICI Bank statement", banks.ICICI},
		{"STATE BANK OF INDIA", banks.SBI},
		{"Axis Bank Ltd", banks.Axis},
		{"Kotak Mahindra Bank", banks.Kotak},
		{"Punjab National Bank", banks.PNB},
		{"Canara Bank", banks.Canara},
		{"both hdfc bank and icici bank", banks.HDFC},
		{"some other bank", GenericBank},
		{"", GenericBank},
	}
	for _, tt := range tests {
		e := r.Route(tt.text)
		require.NotNil(t, e)
		assert.Equal(t, tt.want, e.Bank(), tt.text)
	}
	assert.Equal(t, []string{"HDFC", "ICICI", "SBI", "AXIS", "KOTAK", "PNB", "CANARA", "GENERIC"}, r.Names())
}

func TestBankDateFormats(t *testing.T) {
	r := DefaultRegistry()
	tests := []struct {
		bank string
		line string
		want string
	}{
		{banks.SBI, "05-03-2024  BY TRANSFER NEFT  1,000.00  11,000.00", "2024-03-05"},
		{banks.Axis, "05-Mar-2024  UPI/P2M/ZOMATO  250.00 Dr  750.00", "2024-03-05"},
		{banks.Kotak, "05 Mar 2024  IMPS FROM RAVI  500.00 Cr  1,500.00", "2024-03-05"},
		{banks.ICICI, "05/03/2024  NEFT ACME  500.00  1,500.00", "2024-03-05"},
		{banks.Canara, "05-03-2024  CHQ DEP  500.00  1,500.00", "2024-03-05"},
	}
	for _, tt := range tests {
		txns, err := r.Get(tt.bank).Extract(tt.line)
		require.NoError(t, err)
		require.Len(t, txns, 1, tt.bank)
		assert.Equal(t, tt.want, txns[0].Date.Format("2006-01-02"), tt.bank)
	}
}

func TestParseForcedBank(t *testing.T) {
	r := DefaultRegistry()
	res, err := r.Parse("05-Mar-2024  UPI/P2M/ZOMATO  250.00 Dr  750.00", Options{Bank: "axis"})
	require.NoError(t, err)
	assert.Equal(t, banks.Axis, res.Bank)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, model.Debit, res.Transactions[0].Type())

	_, err = r.Parse("x", Options{Bank: "nope"})
	require.ErrorIs(t, err, ErrUnknownBank)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := DefaultRegistry()
	dir := banks.NewService(banks.DefaultDirectory())
	b, _ := dir.Get(banks.HDFC)
	assert.Panics(t, func() { r.Register(NewBankExtractor(b, BankFormats[banks.HDFC])) })
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1,23,456.78", "123456.78", true},
		{"₹ 500.00", "500", true},
		{"Rs. 1,000", "1000", true},
		{"(250.00)", "-250", true},
		{"75.00-", "-75", true},
		{"", "0", false},
		{"abc", "0", false},
	}
	for _, tt := range tests {
		got, ok := parseAmount(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got.String(), tt.in)
	}
}

func TestParseRowsStatementCSV(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(readTestdata(t, "statement.csv")))
	require.NoError(t, err)

	res, err := ParseRows(rows, Options{JobID: "j"})
	require.NoError(t, err)
	assert.Equal(t, SpreadsheetBank, res.Bank)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, 2, res.Skipped)

	assert.Equal(t, "50000.00", res.Transactions[0].Credit.StringFixed(2))
	assert.Equal(t, "60000.00", res.Transactions[0].Balance.StringFixed(2))
	assert.Equal(t, "650.00", res.Transactions[1].Debit.StringFixed(2))
	assert.Equal(t, "2024-03-05", res.Transactions[1].Date.Format("2006-01-02"))
	assert.Equal(t, "j", res.Transactions[1].JobID)
}

func TestParseRowsSignedAmount(t *testing.T) {
	rows := [][]string{
		{"Txn Date", "Particulars", "Amount"},
		{"2024-04-01", "SALARY APR", "40000"},
		{"2024-04-02", "RENT", "(15,000.00)"},
		{"45386", "GROCERY", "-500"},
	}
	res, err := ParseRows(rows, Options{})
	require.NoError(t, err)
	require.Len(t, res.Transactions, 3)

	assert.Equal(t, "40000", res.Transactions[0].Credit.String())
	assert.Equal(t, "15000", res.Transactions[1].Debit.String())
	assert.Equal(t, "25000", res.Transactions[1].Balance.String())
	// Excel serial 45386 is 2024-04-04.
	assert.Equal(t, "2024-04-04", res.Transactions[2].Date.Format("2006-01-02"))
	assert.Equal(t, "24500", res.Transactions[2].Balance.String())
}

func TestParseRowsErrors(t *testing.T) {
	_, err := ParseRows([][]string{{"foo", "bar"}, {"1", "2"}}, Options{})
	assert.ErrorIs(t, err, ErrMissingColumns)

	_, err = ParseRows([][]string{{"Date", "Description", "Notes"}, {"2024-01-01", "x", "y"}}, Options{})
	assert.ErrorIs(t, err, ErrNoAmountColumn)

	_, err = ParseRows([][]string{{"Date", "Description", "Debit"}, {"not a date", "x", "5"}}, Options{})
	assert.ErrorIs(t, err, ErrNoTransactions)
}

func TestClassify(t *testing.T) {
	prev := lt.Dec("1000")
	tests := []struct {
		name    string
		amt     string
		marker  string
		hasBal  bool
		balance string
		prev    *decimal.Decimal
		desc    string
		want    model.TxnType
	}{
		{"marker wins", "100", "cr", true, "900", &prev, "ATM WDL", model.Credit},
		{"balance rise beats debit hint", "100", "", true, "1100", &prev, "ATM WDL REVERSAL", model.Credit},
		{"balance fall beats no hint", "100", "", true, "900", &prev, "REFUND", model.Debit},
		{"hint without balance", "100", "", false, "", nil, "CASH WITHDRAWAL", model.Debit},
		{"hint when balance does not reconcile", "100", "", true, "5000", &prev, "ATM WDL", model.Debit},
		{"default credit", "100", "", false, "", nil, "INTEREST", model.Credit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(lt.Dec(tt.amt), tt.marker, tt.hasBal, lt.Dec(tt.balance), tt.prev, tt.desc)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.TXT", "c.csv", "d.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755))

	files, err := Scan(dir)
	require.NoError(t, err)
	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"a.pdf", "b.TXT", "c.csv"}, names)

	_, err = Scan(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
