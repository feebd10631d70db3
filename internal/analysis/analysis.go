// Package analysis runs the full statement pipeline: extraction,
// categorization, the summary and every analysis pass, assembled into one
// Report.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bitmaura/finscore/internal/alerts"
	"github.com/bitmaura/finscore/internal/bankmetrics"
	"github.com/bitmaura/finscore/internal/behavior"
	"github.com/bitmaura/finscore/internal/categorize"
	"github.com/bitmaura/finscore/internal/config"
	"github.com/bitmaura/finscore/internal/counterparty"
	"github.com/bitmaura/finscore/internal/foir"
	"github.com/bitmaura/finscore/internal/fraud"
	"github.com/bitmaura/finscore/internal/gst"
	"github.com/bitmaura/finscore/internal/id"
	"github.com/bitmaura/finscore/internal/importer"
	"github.com/bitmaura/finscore/internal/income"
	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/model"
	"github.com/bitmaura/finscore/internal/risk"
	"github.com/bitmaura/finscore/internal/summary"
	"github.com/bitmaura/finscore/internal/trend"
)

// ErrNoTransactions is returned when extraction leaves nothing to analyze.
var ErrNoTransactions = errors.New("no transactions to analyze")

// topCounterparties is how many parties each ranking keeps.
const topCounterparties = 10

// Options tags a run and tunes the eligibility calculation.
type Options struct {
	JobID          string
	UserID         string
	DeclaredIncome decimal.Decimal // zero when not declared
	FOIR           foir.Options    // zero fields take the configured defaults
}

// Input is one statement to analyze: extracted text, or spreadsheet rows
// when Rows is set.
type Input struct {
	Text string
	Rows [][]string
	Bank string // force an extractor; empty routes by content
	Options
}

// Report bundles every result of one run.
type Report struct {
	JobID            string                  `json:"job_id"`
	UserID           string                  `json:"user_id,omitempty"`
	GeneratedAt      time.Time               `json:"generated_at"`
	Bank             string                  `json:"bank,omitempty"`
	AccountDetails   importer.AccountDetails `json:"account_details"`
	TransactionCount int                     `json:"transaction_count"`
	Skipped          int                     `json:"skipped"`
	Undated          int                     `json:"undated"`

	Transactions        []model.Transaction            `json:"transactions"`
	Summary             summary.FinancialSummary       `json:"summary"`
	Categories          []categorize.CategorySummary   `json:"categories"`
	Monthly             summary.MonthlyResult          `json:"monthly"`
	Counterparties      []counterparty.Counterparty    `json:"counterparties"`
	TopCounterparties   counterparty.TopCounterparties `json:"top_counterparties"`
	CounterpartySummary counterparty.Summary           `json:"counterparty_summary"`
	Alerts              []alerts.RedAlert              `json:"alerts"`
	AlertStatistics     alerts.AlertStatistics         `json:"alert_statistics"`
	SpendingTrends      []trend.Trend                  `json:"spending_trends"`
	Anomalies           []trend.Anomaly                `json:"anomalies"`

	Income      income.IncomeVerificationResult `json:"income"`
	FOIR        foir.FOIRAnalysis               `json:"foir"`
	Fraud       fraud.AdvancedFraudAnalysis     `json:"fraud"`
	Behavior    behavior.BankingBehaviorScore   `json:"behavior"`
	Risk        risk.RiskAssessment             `json:"risk"`
	GST         gst.Metrics                     `json:"gst"`
	BankMetrics bankmetrics.Metrics             `json:"bank_metrics"`
}

// Service runs analyses. The analyzers it holds are read-only, so one
// Service may serve concurrent runs.
type Service struct {
	cfg      *config.Config
	log      *zap.Logger
	registry *importer.Registry
	now      func() time.Time

	categorizer  *categorize.Engine
	income       *income.Verifier
	foir         *foir.Calculator
	fraud        *fraud.Detector
	behavior     *behavior.Scorer
	risk         *risk.Assessor
	alerts       *alerts.Detector
	counterparty *counterparty.Analyzer
	gst          *gst.Analyzer
	bank         *bankmetrics.Calculator
}

// NewService compiles every dictionary in cfg.
func NewService(cfg *config.Config, log *zap.Logger) *Service {
	d := cfg.Dictionaries
	return &Service{
		cfg:          cfg,
		log:          log,
		registry:     importer.DefaultRegistry(),
		now:          time.Now,
		categorizer:  categorize.New(d.Categories),
		income:       income.New(d.Income, cfg.Analysis.NormalizationMonths),
		foir:         foir.New(d.FOIR),
		fraud:        fraud.New(d.Fraud),
		behavior:     behavior.New(d.Behavior),
		risk:         risk.New(d.Risk),
		alerts:       alerts.New(d.Alerts),
		counterparty: counterparty.New(d.Counterparty),
		gst:          gst.New(d.GST),
		bank:         bankmetrics.New(d.Bank),
	}
}

// Registry returns the extractor registry used for text input.
func (s *Service) Registry() *importer.Registry { return s.registry }

// Parse extracts the ledger from in without analyzing it.
func (s *Service) Parse(in Input) (*importer.ParseResult, error) {
	opts := importer.Options{Bank: in.Bank, JobID: id.JobID(in.JobID), UserID: in.UserID}
	if len(in.Rows) > 0 {
		res, err := importer.ParseRows(in.Rows, opts)
		if err != nil {
			return nil, fmt.Errorf("parsing statement rows: %w", err)
		}
		return res, nil
	}
	res, err := s.registry.Parse(in.Text, opts)
	if err != nil {
		return nil, fmt.Errorf("parsing statement text: %w", err)
	}
	return res, nil
}

// Run extracts and analyzes one statement.
func (s *Service) Run(ctx context.Context, in Input) (*Report, error) {
	in.JobID = id.JobID(in.JobID)
	parsed, err := s.Parse(in)
	if err != nil {
		return nil, err
	}
	s.log.Debug("statement parsed",
		zap.String("job_id", in.JobID),
		zap.String("bank", parsed.Bank),
		zap.Int("transactions", len(parsed.Transactions)),
		zap.Int("skipped", parsed.Skipped))

	r, err := s.RunLedger(ctx, parsed.Transactions, in.Options)
	if err != nil {
		return nil, err
	}
	r.Bank = parsed.Bank
	r.AccountDetails = parsed.AccountDetails
	r.Skipped = parsed.Skipped
	r.Undated = parsed.Undated
	return r, nil
}

// RunLedger analyzes an already extracted ledger.
func (s *Service) RunLedger(ctx context.Context, txns []model.Transaction, opts Options) (*Report, error) {
	if len(txns) == 0 {
		return nil, ErrNoTransactions
	}
	start := s.now()
	r := &Report{
		JobID:            id.JobID(opts.JobID),
		UserID:           opts.UserID,
		GeneratedAt:      start.UTC(),
		TransactionCount: len(txns),
	}

	r.Transactions = s.categorizer.CategorizeAll(txns)
	r.Summary = summary.Calculate(r.Transactions)
	r.Categories = categorize.Summarize(r.Transactions)
	foirOpts := s.foirOptions(opts.FOIR)

	g, gctx := errgroup.WithContext(ctx)
	run := func(f func()) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f()
			return nil
		})
	}
	txs := r.Transactions
	run(func() { r.Income = s.income.Verify(txs, opts.DeclaredIncome) })
	run(func() { r.FOIR = s.foir.Calculate(txs, foirOpts) })
	run(func() { r.Fraud = s.fraud.Detect(txs) })
	run(func() { r.Behavior = s.behavior.Score(txs) })
	run(func() { r.Risk = s.risk.Assess(txs, r.Summary) })
	run(func() { r.Monthly = summary.Monthly(txs) })
	run(func() { r.GST = s.gst.Compute(txs) })
	run(func() { r.BankMetrics = s.bank.Compute(txs) })
	run(func() {
		r.Alerts = s.alerts.Detect(txs)
		r.AlertStatistics = alerts.Statistics(r.Alerts)
	})
	run(func() {
		r.SpendingTrends = trend.SpendingTrends(txs)
		r.Anomalies = trend.Anomalies(txs)
	})
	run(func() {
		r.Counterparties = s.counterparty.Analyze(txs)
		r.TopCounterparties = counterparty.Top(r.Counterparties, topCounterparties)
		_, last, _ := ledger.Span(txs)
		r.CounterpartySummary = counterparty.Insights(r.Counterparties, last)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("running analysis: %w", err)
	}

	s.log.Info("analysis complete",
		zap.String("job_id", r.JobID),
		zap.Int("transactions", r.TransactionCount),
		zap.Int("fraud_score", r.Fraud.FraudScore),
		zap.String("risk_level", r.Risk.RiskLevel),
		zap.Float64("foir", r.FOIR.FOIR),
		zap.Duration("elapsed", s.now().Sub(start)))
	return r, nil
}

// foirOptions fills unset options from the analysis config.
func (s *Service) foirOptions(o foir.Options) foir.Options {
	a := s.cfg.Analysis
	if o.TenureMonths <= 0 {
		o.TenureMonths = a.TenureMonths
	}
	if o.AnnualRatePercent <= 0 {
		o.AnnualRatePercent = a.AnnualRatePercent
	}
	if o.MaxFOIRPercent <= 0 {
		o.MaxFOIRPercent = a.MaxFOIRPercent
	}
	if o.NormalizationMonths <= 0 {
		o.NormalizationMonths = a.NormalizationMonths
	}
	return o
}
