package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/model"
)

// SpreadsheetBank is the bank name reported for row-based input.
const SpreadsheetBank = "SPREADSHEET"

const (
	fieldDate        = "date"
	fieldDescription = "description"
	fieldDebit       = "debit"
	fieldCredit      = "credit"
	fieldAmount      = "amount"
	fieldBalance     = "balance"

	// headerScanRows is how many leading rows may precede the header.
	headerScanRows = 20
)

var headerSynonyms = map[string][]string{
	fieldDate:        {"date", "transaction_date", "trans_date", "value_date", "posting_date", "txn_date"},
	fieldDescription: {"description", "narrative", "memo", "particulars", "details", "transaction_details", "narration", "remarks"},
	fieldDebit:       {"debit", "withdrawal", "debit_amount", "dr", "withdrawal_amt"},
	fieldCredit:      {"credit", "deposit", "credit_amount", "cr", "deposit_amt"},
	fieldAmount:      {"amount", "transaction_amount"},
	fieldBalance:     {"balance", "closing_balance", "available_balance", "running_balance"},
}

var spreadsheetLayouts = []string{"02/01/2006", "2006-01-02", "02-01-2006", "02-Jan-2006", "2/1/2006", "02/01/06", "2006-01-02 15:04:05"}

// excelEpoch is day zero of the 1900 date system as Excel counts it.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var headerCleaner = strings.NewReplacer(" ", "_", "-", "_", "(", "", ")", "", ".", "")

func normalizeHeader(h string) string {
	return strings.Trim(headerCleaner.Replace(strings.ToLower(strings.TrimSpace(h))), "_")
}

// mapHeader returns field -> column index for the fields found in header.
func mapHeader(header []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range header {
		norm := normalizeHeader(h)
		for field, syns := range headerSynonyms {
			if _, done := cols[field]; done {
				continue
			}
			for _, s := range syns {
				if norm == s {
					cols[field] = i
					break
				}
			}
		}
	}
	return cols
}

// ReadCSV reads every record of a CSV file as raw spreadsheet rows.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	return rows, nil
}

// ParseRows maps spreadsheet rows to transactions. The header row is located
// among the first rows by its date and description columns.
func ParseRows(rows [][]string, opts Options) (*ParseResult, error) {
	headerIdx, cols := -1, map[string]int(nil)
	for i := 0; i < len(rows) && i < headerScanRows; i++ {
		c := mapHeader(rows[i])
		_, hasDate := c[fieldDate]
		_, hasDesc := c[fieldDescription]
		if hasDate && hasDesc {
			headerIdx, cols = i, c
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrMissingColumns
	}
	_, hasDebit := cols[fieldDebit]
	_, hasCredit := cols[fieldCredit]
	_, hasAmount := cols[fieldAmount]
	if !hasDebit && !hasCredit && !hasAmount {
		return nil, ErrNoAmountColumn
	}
	_, hasBalance := cols[fieldBalance]

	cell := func(rec []string, field string) string {
		i, ok := cols[field]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var txns []model.Transaction
	skipped := 0
	running := decimal.Zero
	for _, rec := range rows[headerIdx+1:] {
		rawDate := cell(rec, fieldDate)
		date, ok := parseSpreadsheetDate(rawDate)
		if !ok {
			skipped++
			continue
		}

		var debit, credit decimal.Decimal
		if hasDebit || hasCredit {
			debit, _ = parseAmount(cell(rec, fieldDebit))
			credit, _ = parseAmount(cell(rec, fieldCredit))
			debit, credit = debit.Abs(), credit.Abs()
		}
		if debit.IsZero() && credit.IsZero() && hasAmount {
			amt, _ := parseAmount(cell(rec, fieldAmount))
			e := ledger.Entry{Type: model.Credit, Amount: amt}
			if amt.IsNegative() {
				e.Type, e.Amount = model.Debit, amt.Abs()
			}
			t := e.Denormalize()
			debit, credit = t.Debit, t.Credit
		}
		if debit.IsZero() && credit.IsZero() {
			skipped++
			continue
		}

		running = running.Add(credit).Sub(debit)
		balance := running
		if hasBalance {
			if b, ok := parseAmount(cell(rec, fieldBalance)); ok {
				balance = b
				running = b
			}
		}

		txns = append(txns, model.Transaction{
			Date:        date,
			RawDate:     rawDate,
			Description: cell(rec, fieldDescription),
			Debit:       debit,
			Credit:      credit,
			Balance:     balance,
		})
	}

	if len(txns) == 0 {
		return nil, ErrNoTransactions
	}
	res := finish(txns, opts)
	res.Bank = SpreadsheetBank
	res.Skipped += skipped
	return res, nil
}

// parseSpreadsheetDate accepts the common text layouts and Excel serial days.
func parseSpreadsheetDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if d, ok := parseDate(s, spreadsheetLayouts); ok {
		return d, true
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 2958466 {
		return excelEpoch.AddDate(0, 0, int(serial)), true
	}
	return time.Time{}, false
}
