package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/model"
)

// Header is the CSV header for ledger files.
const Header = "date,raw_date,description,debit,credit,balance,category,confidence,job_id,user_id"

const (
	numFields  = 10
	dateFormat = "2006-01-02"
	colDate    = 0
	colRawDate = 1
	colDesc    = 2
	colDebit   = 3
	colCredit  = 4
	colBalance = 5
	colCat     = 6
	colConf    = 7
	colJobID   = 8
	colUserID  = 9
)

// ReadCSV reads all transactions from a ledger CSV reader.
func ReadCSV(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// WriteCSV writes transactions to a ledger CSV writer (including header).
func WriteCSV(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if err := cw.Write(MarshalRow(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts a Transaction to a CSV row.
func MarshalRow(t model.Transaction) []string {
	row := make([]string, numFields)
	if t.IsDated() {
		row[colDate] = t.Date.Format(dateFormat)
	}
	row[colRawDate] = t.RawDate
	row[colDesc] = t.Description

	if !t.Debit.IsZero() {
		row[colDebit] = t.Debit.StringFixed(2)
	}
	if !t.Credit.IsZero() {
		row[colCredit] = t.Credit.StringFixed(2)
	}
	row[colBalance] = t.Balance.StringFixed(2)

	row[colCat] = t.Category
	if t.Category != "" {
		row[colConf] = strconv.FormatFloat(t.Confidence, 'f', 2, 64)
	}
	row[colJobID] = t.JobID
	row[colUserID] = t.UserID
	return row
}

// UnmarshalRow converts a CSV row to a Transaction.
func UnmarshalRow(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	var date time.Time
	var err error
	if record[colDate] != "" {
		date, err = time.Parse(dateFormat, record[colDate])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
		}
	}

	debit, err := parseOptional(record[colDebit])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
	}
	credit, err := parseOptional(record[colCredit])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
	}
	balance, err := parseOptional(record[colBalance])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
	}

	var confidence float64
	if record[colConf] != "" {
		confidence, err = strconv.ParseFloat(record[colConf], 64)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing confidence %q: %w", record[colConf], err)
		}
	}

	return model.Transaction{
		Date:        date,
		RawDate:     record[colRawDate],
		Description: record[colDesc],
		Debit:       debit,
		Credit:      credit,
		Balance:     balance,
		Category:    record[colCat],
		Confidence:  confidence,
		JobID:       record[colJobID],
		UserID:      record[colUserID],
	}, nil
}

func parseOptional(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
