package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmaura/finscore/internal/analysis"
	"github.com/bitmaura/finscore/internal/importer"
	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/textract"
)

// ledgerSuffix marks a CSV already in ledger format.
const ledgerSuffix = ".ledger.csv"

// statementFiles expands directory arguments to the statement files they
// hold. Plain file arguments pass through unchanged.
func statementFiles(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		files, err := importer.Scan(arg)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no statement files in %s", arg)
		}
		for _, f := range files {
			paths = append(paths, f.Path)
		}
	}
	return paths, nil
}

// loadStatement extracts one statement file of any supported type.
func loadStatement(svc *analysis.Service, path string, in analysis.Input) (*importer.ParseResult, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ledgerSuffix):
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening ledger: %w", err)
		}
		defer f.Close()
		txns, err := ledger.ReadCSV(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		kept, _ := ledger.Clean(txns)
		res := &importer.ParseResult{Transactions: kept, Skipped: len(txns) - len(kept)}
		for _, t := range kept {
			if !t.IsDated() {
				res.Undated++
			}
		}
		return res, nil

	case filepath.Ext(lower) == ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening statement: %w", err)
		}
		defer f.Close()
		rows, err := importer.ReadCSV(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		in.Rows = rows

	default:
		text, err := textract.File(path)
		if err != nil {
			return nil, err
		}
		in.Text = text
	}

	res, err := svc.Parse(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// mergeStatements concatenates the ledgers of several statements in date
// order. Bank and account details come from the first statement that has them.
func mergeStatements(results []*importer.ParseResult) *importer.ParseResult {
	merged := &importer.ParseResult{}
	var banks []string
	seen := make(map[string]bool)
	for _, res := range results {
		merged.Transactions = append(merged.Transactions, res.Transactions...)
		merged.Skipped += res.Skipped
		merged.Undated += res.Undated
		if res.Bank != "" && !seen[res.Bank] {
			seen[res.Bank] = true
			banks = append(banks, res.Bank)
		}
		if merged.AccountDetails.BankName == "" && merged.AccountDetails.AccountNumber == "" {
			merged.AccountDetails = res.AccountDetails
		}
	}
	merged.Bank = strings.Join(banks, ",")
	if len(results) > 1 {
		ledger.SortByDate(merged.Transactions)
	}
	return merged
}
