package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bitmaura/finscore/internal/analysis"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp    time.Time
	JobID        string
	UserID       string
	Bank         string
	Transactions int
	FOIR         float64
	FraudScore   int
	RiskLevel    string
}

// Header is the CSV header of the run log.
const Header = "timestamp,job_id,user_id,bank,transactions,foir,fraud_score,risk_level"

const (
	numFields       = 8
	colTimestamp    = 0
	colJobID        = 1
	colUserID       = 2
	colBank         = 3
	colTransactions = 4
	colFOIR         = 5
	colFraudScore   = 6
	colRiskLevel    = 7
)

// FromReport summarizes a finished analysis.
func FromReport(r *analysis.Report) Entry {
	return Entry{
		Timestamp:    r.GeneratedAt,
		JobID:        r.JobID,
		UserID:       r.UserID,
		Bank:         r.Bank,
		Transactions: r.TransactionCount,
		FOIR:         r.FOIR.FOIR,
		FraudScore:   r.Fraud.FraudScore,
		RiskLevel:    r.Risk.RiskLevel,
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colJobID] = e.JobID
	row[colUserID] = e.UserID
	row[colBank] = e.Bank
	row[colTransactions] = strconv.Itoa(e.Transactions)
	row[colFOIR] = strconv.FormatFloat(e.FOIR, 'f', 2, 64)
	row[colFraudScore] = strconv.Itoa(e.FraudScore)
	row[colRiskLevel] = e.RiskLevel
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	txns, err := strconv.Atoi(record[colTransactions])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing transactions %q: %w", record[colTransactions], err)
	}
	foir, err := strconv.ParseFloat(record[colFOIR], 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing foir %q: %w", record[colFOIR], err)
	}
	score, err := strconv.Atoi(record[colFraudScore])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing fraud score %q: %w", record[colFraudScore], err)
	}

	return Entry{
		Timestamp:    ts,
		JobID:        record[colJobID],
		UserID:       record[colUserID],
		Bank:         record[colBank],
		Transactions: txns,
		FOIR:         foir,
		FraudScore:   score,
		RiskLevel:    record[colRiskLevel],
	}, nil
}

// Append writes entries to the log at path, creating the file, its
// directory and the header if needed.
func Append(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating run log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from the log at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
