// Package report renders an analysis report as JSON or as a colored text
// summary for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/analysis"
	"github.com/bitmaura/finscore/internal/fraud"
	"github.com/bitmaura/finscore/internal/risk"
)

// Formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
)

const topRows = 5

// Write renders r in the given format.
func Write(w io.Writer, r *analysis.Report, format string, useColor bool) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatText, "":
		return WriteText(w, r, useColor)
	default:
		return fmt.Errorf("unknown report format %q (want %s or %s)", format, FormatText, FormatJSON)
	}
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

type printer struct {
	w   io.Writer
	err error

	heading *color.Color
	good    *color.Color
	warn    *color.Color
	bad     *color.Color
}

func newPrinter(w io.Writer, useColor bool) *printer {
	p := &printer{
		w:       w,
		heading: color.New(color.Bold, color.FgCyan),
		good:    color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		bad:     color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.heading, p.good, p.warn, p.bad} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) printf(c *color.Color, format string, args ...any) {
	if p.err != nil {
		return
	}
	if c == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
		return
	}
	_, p.err = c.Fprintf(p.w, format, args...)
}

func (p *printer) section(title string) {
	p.printf(nil, "\n")
	p.printf(p.heading, "%s\n", title)
	p.printf(nil, "%s\n", strings.Repeat("-", len(title)))
}

func (p *printer) row(label string, value any) {
	p.printf(nil, "  %-24s %v\n", label, value)
}

func money(d decimal.Decimal) string { return "₹" + d.StringFixed(2) }

// WriteText writes a human-readable summary of r.
func WriteText(w io.Writer, r *analysis.Report, useColor bool) error {
	p := newPrinter(w, useColor)

	p.printf(p.heading, "finscore report %s\n", r.JobID)
	p.row("Generated", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if r.Bank != "" {
		p.row("Bank", r.Bank)
	}
	if d := r.AccountDetails; d.AccountNumber != "" || d.AccountHolder != "" {
		p.row("Account", strings.TrimSpace(d.AccountHolder+" "+d.AccountNumber))
	}
	p.row("Transactions", fmt.Sprintf("%d (%d skipped, %d undated)", r.TransactionCount, r.Skipped, r.Undated))

	s := r.Summary
	p.section("Summary")
	p.row("Total income", money(s.TotalIncome))
	p.row("Total expenses", money(s.TotalExpenses))
	p.row("Net cash flow", money(s.NetCashFlow))
	p.row("Balance range", money(s.LowestBalance)+" to "+money(s.HighestBalance))
	p.row("Savings rate", fmt.Sprintf("%.1f%%", s.SavingsRate))

	if len(r.Categories) > 0 {
		p.section("Top categories")
		for i, c := range r.Categories {
			if i == topRows {
				break
			}
			p.row(c.Category, fmt.Sprintf("%s (%d txns, %.1f%%)", money(c.Net), c.Count, c.Percentage))
		}
	}

	in := r.Income
	p.section("Income")
	p.row("Average salary", money(in.AverageSalary))
	p.row("Monthly income", money(in.TotalMonthlyIncome))
	if in.Employer != "" {
		p.row("Employer", in.Employer)
	}
	p.row("Consistency", fmt.Sprintf("%d/100 (%s)", in.SalaryConsistency, in.SalaryTrend))
	p.row("Verification", in.VerificationStatus)

	f := r.FOIR
	p.section("FOIR")
	p.row("Obligations", money(f.TotalObligations))
	p.row("FOIR", fmt.Sprintf("%.2f%% (%s)", f.FOIR, f.Status))
	p.row("Max eligible EMI", money(f.MaxEligibleEMI))
	p.row("Max loan amount", money(f.MaxLoanAmount))
	for _, warning := range f.Warnings {
		p.printf(p.warn, "  ! %s\n", warning)
	}

	fr := r.Fraud
	p.section("Fraud")
	p.printf(nil, "  %-24s ", "Score")
	p.printf(fraudColor(p, fr.FraudLevel), "%d/100 (%s)\n", fr.FraudScore, fr.FraudLevel)
	for _, e := range fr.Evidence {
		p.printf(severityColor(p, e.Severity), "  [%s] %s\n", e.Severity, e.Finding)
	}

	b := r.Behavior
	p.section("Banking behavior")
	p.row("Score", fmt.Sprintf("%d/100 (%s)", b.Score, b.Rating))
	p.row("Account age", fmt.Sprintf("%d months (%s)", b.Vintage.AgeMonths, b.Vintage.Status))
	for _, line := range b.Strengths {
		p.printf(p.good, "  + %s\n", line)
	}
	for _, line := range b.Weaknesses {
		p.printf(p.warn, "  - %s\n", line)
	}

	rk := r.Risk
	p.section("Risk")
	p.printf(nil, "  %-24s ", "Risk score")
	p.printf(riskColor(p, rk.RiskLevel), "%d/100 (%s)\n", rk.RiskScore, rk.RiskLevel)
	p.row("Financial health", fmt.Sprintf("%d/100", rk.FinancialHealthScore))
	p.row("Creditworthiness", fmt.Sprintf("%d/100", rk.CreditworthinessScore))
	for _, factor := range rk.Factors {
		p.printf(p.warn, "  ! %s: %s (+%d)\n", factor.Name, factor.Description, factor.Points)
	}

	bm := r.BankMetrics
	p.section("Account")
	p.row("Compliance", fmt.Sprintf("%d/100", bm.ComplianceScore))
	if bm.EMIToIncomeRatio != nil {
		p.row("EMI to salary", fmt.Sprintf("%.2f", *bm.EMIToIncomeRatio))
	}
	p.row("Cheque returns", fmt.Sprintf("%d (%s)", bm.Totals.ChequeReturns, money(bm.Totals.ChequeReturnAmount)))
	for i, rec := range bm.Recurring {
		if i == topRows {
			break
		}
		p.row("Recurring", fmt.Sprintf("%s x%d", rec.Description, rec.Count))
	}

	if g := r.GST; g.PaymentsCount+g.RefundsCount > 0 {
		p.section("GST")
		p.row("Payments", fmt.Sprintf("%s (%d)", money(g.TotalPayments), g.PaymentsCount))
		p.row("Refunds", fmt.Sprintf("%s (%d)", money(g.TotalRefunds), g.RefundsCount))
		p.row("Active months", g.MonthsWithActivity)
	}

	if len(r.Alerts) > 0 {
		p.section("Red alerts")
		for _, a := range r.Alerts {
			p.printf(severityColor(p, a.Severity), "  %s %-8s %s\n", a.ID, a.Severity, a.Title)
		}
	}

	if top := r.TopCounterparties.ByVolume; len(top) > 0 {
		p.section("Top counterparties")
		for i, c := range top {
			if i == topRows {
				break
			}
			p.row(c.Name, fmt.Sprintf("%s in, %s out (%s)", money(c.Received), money(c.Sent), c.Relationship))
		}
	}

	var recs []string
	recs = append(recs, f.Recommendations...)
	recs = append(recs, fr.Recommendations...)
	recs = append(recs, rk.Recommendations...)
	if len(recs) > 0 {
		p.section("Recommendations")
		for _, rec := range recs {
			p.printf(nil, "  * %s\n", rec)
		}
	}
	return p.err
}

func fraudColor(p *printer, level string) *color.Color {
	switch level {
	case fraud.LevelNoRisk, fraud.LevelLow:
		return p.good
	case fraud.LevelMedium:
		return p.warn
	default:
		return p.bad
	}
}

func riskColor(p *printer, level string) *color.Color {
	switch level {
	case risk.LevelLow:
		return p.good
	case risk.LevelMedium:
		return p.warn
	default:
		return p.bad
	}
}

func severityColor(p *printer, severity string) *color.Color {
	switch strings.ToLower(severity) {
	case "critical", "high":
		return p.bad
	case "medium":
		return p.warn
	default:
		return nil
	}
}
