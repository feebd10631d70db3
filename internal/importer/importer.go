// Package importer routes bank statements to format-specific extractors and
// turns them into ledger transactions.
package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmaura/finscore/internal/banks"
	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/model"
)

// Extractor turns statement text from one bank into transactions.
type Extractor interface {
	Bank() string
	Detect(text string) bool
	Extract(text string) ([]model.Transaction, error)
}

var (
	// ErrUnknownBank is returned when a bank hint names no registered extractor.
	ErrUnknownBank = errors.New("unknown bank")
	// ErrMissingColumns is returned when a spreadsheet has no date and description header.
	ErrMissingColumns = errors.New("could not find required columns: date and description")
	// ErrNoAmountColumn is returned when a spreadsheet has no debit, credit, or amount column.
	ErrNoAmountColumn = errors.New("could not find an amount column: debit, credit, or amount")
	// ErrNoTransactions is returned when a spreadsheet yields no usable rows.
	ErrNoTransactions = errors.New("no valid transactions found")
)

// Options tags and steers one parse.
type Options struct {
	Bank   string // force an extractor; empty routes by content
	JobID  string
	UserID string
}

// ParseResult is the output of one statement parse.
type ParseResult struct {
	Bank           string              `json:"bank"`
	AccountDetails AccountDetails      `json:"account_details"`
	Transactions   []model.Transaction `json:"transactions"`
	Skipped        int                 `json:"skipped"` // rows dropped by ledger validation or unusable cells
	Undated        int                 `json:"undated"` // rows kept with an unparseable date
}

// Registry holds bank extractors in routing order plus a fallback that is
// always tried last.
type Registry struct {
	extractors []Extractor
	byName     map[string]Extractor
	fallback   Extractor
	directory  *banks.Service
}

// NewRegistry creates a registry with only the fallback extractor.
func NewRegistry(fallback Extractor, directory *banks.Service) *Registry {
	return &Registry{
		byName:    map[string]Extractor{strings.ToLower(fallback.Bank()): fallback},
		fallback:  fallback,
		directory: directory,
	}
}

// Register appends an extractor to the routing order. Panics on duplicate bank.
func (r *Registry) Register(e Extractor) {
	key := strings.ToLower(e.Bank())
	if _, ok := r.byName[key]; ok {
		panic("duplicate extractor bank: " + key)
	}
	r.byName[key] = e
	r.extractors = append(r.extractors, e)
}

// Get returns the extractor for bank, or nil.
func (r *Registry) Get(bank string) Extractor {
	return r.byName[strings.ToLower(bank)]
}

// Names returns the registered bank names in routing order, fallback last.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.extractors)+1)
	for _, e := range r.extractors {
		names = append(names, e.Bank())
	}
	return append(names, r.fallback.Bank())
}

// Route returns the first extractor whose detector accepts text, or the
// fallback. It never returns nil.
func (r *Registry) Route(text string) Extractor {
	for _, e := range r.extractors {
		if e.Detect(text) {
			return e
		}
	}
	return r.fallback
}

// Parse routes text (or uses opts.Bank), extracts, tags and validates the
// transactions.
func (r *Registry) Parse(text string, opts Options) (*ParseResult, error) {
	e := r.Route(text)
	if opts.Bank != "" {
		if e = r.Get(opts.Bank); e == nil {
			return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownBank, opts.Bank, strings.Join(r.Names(), ", "))
		}
	}

	txns, err := e.Extract(text)
	if err != nil {
		return nil, fmt.Errorf("extracting %s statement: %w", e.Bank(), err)
	}

	res := finish(txns, opts)
	res.Bank = e.Bank()
	res.AccountDetails = DetectAccountDetails(text, r.directory)
	return res, nil
}

// finish stamps tags, drops invalid rows and counts undated ones.
func finish(txns []model.Transaction, opts Options) *ParseResult {
	for i := range txns {
		txns[i].JobID = opts.JobID
		txns[i].UserID = opts.UserID
	}
	kept, _ := ledger.Clean(txns)
	res := &ParseResult{
		Transactions: kept,
		Skipped:      len(txns) - len(kept),
	}
	for _, t := range kept {
		if !t.IsDated() {
			res.Undated++
		}
	}
	if res.Transactions == nil {
		res.Transactions = []model.Transaction{}
	}
	return res
}

// DefaultRegistry returns a registry with all built-in extractors.
func DefaultRegistry() *Registry {
	dir := banks.NewService(banks.DefaultDirectory())
	r := NewRegistry(NewGenericExtractor(), dir)
	for _, code := range []string{banks.HDFC, banks.ICICI, banks.SBI, banks.Axis, banks.Kotak, banks.PNB, banks.Canara} {
		b, _ := dir.Get(code)
		r.Register(NewBankExtractor(b, BankFormats[code]))
	}
	return r
}

// FileInfo describes a statement file found by Scan.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// supportedExts lists the statement file types the CLI can load.
var supportedExts = map[string]bool{".pdf": true, ".txt": true, ".csv": true}

// Scan returns the statement files in dir, sorted by name.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading statement dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !supportedExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}
