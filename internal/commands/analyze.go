package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bitmaura/finscore/internal/analysis"
	"github.com/bitmaura/finscore/internal/foir"
	"github.com/bitmaura/finscore/internal/id"
	"github.com/bitmaura/finscore/internal/importer"
	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/logger"
	"github.com/bitmaura/finscore/internal/report"
	"github.com/bitmaura/finscore/internal/runlog"
)

type analyzeOptions struct {
	bank           string
	jobID          string
	userID         string
	declaredIncome string
	tenureMonths   int
	annualRate     float64
	format         string
	output         string
	ledgerOut      string
	auditLog       string
	noColor        bool
}

func newAnalyzeCommand(g *globalOptions) *cobra.Command {
	o := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze FILE|DIR...",
		Short: "Analyze one or more bank statements",
		Long: `Analyze bank statements (.pdf, .txt, spreadsheet .csv or .ledger.csv).
A directory argument expands to the statement files it holds. Several files
are merged into one ledger in date order before analysis.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, g, o, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.bank, "bank", "", "force a bank extractor (e.g. HDFC, SBI, GENERIC)")
	f.StringVar(&o.jobID, "job-id", "", "job ID (generated when empty)")
	f.StringVar(&o.userID, "user-id", "", "user ID tagged on every transaction")
	f.StringVar(&o.declaredIncome, "declared-income", "", "monthly income declared by the applicant")
	f.IntVar(&o.tenureMonths, "tenure-months", 0, "loan tenure for eligibility (default from config)")
	f.Float64Var(&o.annualRate, "annual-rate", 0, "annual interest rate percent for eligibility (default from config)")
	f.StringVarP(&o.format, "format", "f", report.FormatText, "report format: text or json")
	f.StringVarP(&o.output, "output", "o", "", "write the report to a file instead of stdout")
	f.StringVar(&o.ledgerOut, "ledger-out", "", "write the extracted ledger CSV to a file")
	f.StringVar(&o.auditLog, "audit-log", "", "append a run summary to this CSV file")
	f.BoolVar(&o.noColor, "no-color", false, "disable colored text output")

	return cmd
}

func runAnalyze(cmd *cobra.Command, g *globalOptions, o *analyzeOptions, args []string) (err error) {
	if o.format != report.FormatText && o.format != report.FormatJSON {
		return fmt.Errorf("unknown format %q (want %s or %s)", o.format, report.FormatText, report.FormatJSON)
	}
	if o.tenureMonths < 0 || o.annualRate < 0 {
		return fmt.Errorf("--tenure-months and --annual-rate must not be negative")
	}
	declared := decimal.Zero
	if o.declaredIncome != "" {
		d, err := decimal.NewFromString(o.declaredIncome)
		if err != nil {
			return fmt.Errorf("parsing --declared-income: %w", err)
		}
		declared = d
	}

	cfg, log, err := g.load()
	if err != nil {
		return err
	}
	defer logger.Sync(log)

	svc := analysis.NewService(cfg, log)
	opts := analysis.Options{
		JobID:          id.JobID(o.jobID),
		UserID:         o.userID,
		DeclaredIncome: declared,
		FOIR: foir.Options{
			TenureMonths:      o.tenureMonths,
			AnnualRatePercent: o.annualRate,
		},
	}

	files, err := statementFiles(args)
	if err != nil {
		return err
	}
	results := make([]*importer.ParseResult, 0, len(files))
	for _, path := range files {
		res, err := loadStatement(svc, path, analysis.Input{Bank: o.bank, Options: opts})
		if err != nil {
			return err
		}
		log.Info("statement loaded",
			zap.String("file", path),
			zap.String("bank", res.Bank),
			zap.Int("transactions", len(res.Transactions)))
		results = append(results, res)
	}
	merged := mergeStatements(results)

	if o.ledgerOut != "" {
		if err := writeLedger(o.ledgerOut, merged); err != nil {
			return err
		}
	}

	r, err := svc.RunLedger(cmd.Context(), merged.Transactions, opts)
	if err != nil {
		return err
	}
	r.Bank = merged.Bank
	r.AccountDetails = merged.AccountDetails
	r.Skipped = merged.Skipped
	r.Undated = merged.Undated

	var w io.Writer = cmd.OutOrStdout()
	useColor := !o.noColor && !color.NoColor
	if o.output != "" {
		f, createErr := os.Create(o.output)
		if createErr != nil {
			return fmt.Errorf("creating report file: %w", createErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("closing report file: %w", cerr))
			}
		}()
		w, useColor = f, false
	}
	if err := report.Write(w, r, o.format, useColor); err != nil {
		return err
	}

	if o.auditLog != "" {
		if err := runlog.Append(o.auditLog, []runlog.Entry{runlog.FromReport(r)}); err != nil {
			return fmt.Errorf("writing audit log: %w", err)
		}
	}
	return nil
}

func writeLedger(path string, res *importer.ParseResult) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating ledger file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing ledger file: %w", cerr))
		}
	}()
	if err := ledger.WriteCSV(f, res.Transactions); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	return nil
}
