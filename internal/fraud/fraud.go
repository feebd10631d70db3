// Package fraud looks for statement tampering, income manipulation and
// high-risk borrowing in a ledger.
package fraud

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/config"
	"github.com/bitmaura/finscore/internal/keywords"
	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/model"
)

// Fraud levels.
const (
	LevelNoRisk    = "No Risk"
	LevelLow       = "Low"
	LevelMedium    = "Medium"
	LevelHigh      = "High"
	LevelConfirmed = "Confirmed Fraud"
)

// Evidence categories.
const (
	CategoryTampering    = "Statement Tampering"
	CategoryManipulation = "Income Manipulation"
	CategoryHighRisk     = "High-Risk Activity"
)

// Evidence severities.
const (
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

// Loan stacking hit kinds.
const (
	KindDisbursement = "disbursement"
	KindEMI          = "emi"
)

const (
	gapDays            = 10
	circularWindow     = 30
	circularDays       = 15
	temporaryWindow    = 5
	temporaryHours     = 72
	cashRatioLimit     = 30.0
	manualReviewAbove  = 40
	maxScore           = 100
	balanceTolerance   = 1
	circularTolerance  = 500
	temporaryTolerance = 1000
)

var (
	circularMin     = decimal.NewFromInt(5000)
	temporaryMin    = decimal.NewFromInt(20000)
	disbursementMin = decimal.NewFromInt(10000)
)

// Mismatch is a row whose stated balance does not follow from the previous one.
type Mismatch struct {
	Index      int             `json:"index"`
	Date       time.Time       `json:"date"`
	Expected   decimal.Decimal `json:"expected"`
	Actual     decimal.Decimal `json:"actual"`
	Difference decimal.Decimal `json:"difference"`
}

// BalanceContinuity is the result of replaying the running balance.
type BalanceContinuity struct {
	Passed     bool       `json:"passed"`
	Mismatches []Mismatch `json:"mismatches"`
}

// Gap is a stretch between adjacent dated entries with no activity.
type Gap struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	Days int       `json:"days"`
}

func (g Gap) String() string {
	return fmt.Sprintf("%s to %s (%d days)", g.From.Format(time.DateOnly), g.To.Format(time.DateOnly), g.Days)
}

// CircularTransaction is money sent out and returned shortly after.
type CircularTransaction struct {
	OutgoingDate time.Time       `json:"outgoing_date"`
	IncomingDate time.Time       `json:"incoming_date"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	DaysBetween  int             `json:"days_between"`
}

// TemporaryCredit is a large credit withdrawn again within hours.
type TemporaryCredit struct {
	CreditDate   time.Time       `json:"credit_date"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
	DebitDate    time.Time       `json:"debit_date"`
	DebitAmount  decimal.Decimal `json:"debit_amount"`
	HoursBetween int             `json:"hours_between"`
	Description  string          `json:"description"`
}

// LenderHit is one transaction naming a non-bank lender.
type LenderHit struct {
	Lender string          `json:"lender"`
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Kind   string          `json:"kind"`
}

// Evidence is one finding that contributed to the fraud score.
type Evidence struct {
	Category string `json:"category"`
	Severity string `json:"severity"`
	Finding  string `json:"finding"`
	Details  string `json:"details"`
	Impact   string `json:"impact"`
}

// AdvancedFraudAnalysis is the output of Detect.
type AdvancedFraudAnalysis struct {
	BalanceContinuity BalanceContinuity `json:"balance_continuity"`
	CalculationErrors int               `json:"calculation_errors"`
	TransactionGaps   []Gap             `json:"transaction_gaps"`

	CircularTransactions   []CircularTransaction `json:"circular_transactions"`
	CashInflationDetected  bool                  `json:"cash_inflation_detected"`
	CashDepositRatio       float64               `json:"cash_deposit_ratio"`
	TemporaryCredits       []TemporaryCredit     `json:"temporary_credits"`
	FriendsFamilyTransfers int                   `json:"friends_family_transfers"`

	LoanStackingDetected  bool                `json:"loan_stacking_detected"`
	NBFCLenders           []LenderHit         `json:"nbfc_lenders"`
	PaydayLoanUsage       bool                `json:"payday_loan_usage"`
	P2PLendingDetected    bool                `json:"p2p_lending_detected"`
	CryptoTradingDetected bool                `json:"crypto_trading_detected"`
	GamblingTransactions  []model.Transaction `json:"gambling_transactions"`

	FraudScore           int        `json:"fraud_score"`
	FraudLevel           string     `json:"fraud_level"`
	Evidence             []Evidence `json:"evidence"`
	Recommendations      []string   `json:"recommendations"`
	RequiresManualReview bool       `json:"requires_manual_review"`
}

// Detector runs the fraud checks. It is read-only after New.
type Detector struct {
	nbfc       *keywords.Matcher
	payday     *keywords.Matcher
	p2p        *keywords.Matcher
	crypto     *keywords.Matcher
	gambling   *keywords.Matcher
	cash       *keywords.Matcher
	emi        *keywords.Matcher
	transfer   *keywords.Matcher
	transferEx *keywords.Matcher
}

// New compiles the fraud dictionaries.
func New(cfg config.Fraud) *Detector {
	return &Detector{
		nbfc:       keywords.New(cfg.NBFCLenders),
		payday:     keywords.New(cfg.PaydayLenders),
		p2p:        keywords.New(cfg.P2PLenders),
		crypto:     keywords.New(cfg.CryptoExchanges),
		gambling:   keywords.New(cfg.GamblingKeywords),
		cash:       keywords.New(cfg.CashKeywords),
		emi:        keywords.New(cfg.EMIKeywords),
		transfer:   keywords.New(cfg.TransferKeywords),
		transferEx: keywords.New(cfg.TransferExclusions),
	}
}

// Detect runs every check over txns in statement order.
func (d *Detector) Detect(txns []model.Transaction) AdvancedFraudAnalysis {
	a := AdvancedFraudAnalysis{
		BalanceContinuity:    continuity(txns),
		TransactionGaps:      gaps(txns),
		CircularTransactions: circular(txns),
		TemporaryCredits:     temporary(txns),
		NBFCLenders:          []LenderHit{},
		GamblingTransactions: []model.Transaction{},
	}
	a.CalculationErrors = len(a.BalanceContinuity.Mismatches)
	a.CashDepositRatio = d.cashRatio(txns)
	a.CashInflationDetected = a.CashDepositRatio > cashRatioLimit

	disbursements := 0
	for _, t := range txns {
		desc := t.Description
		if t.IsCredit() && d.transfer.Contains(desc) && !d.transferEx.Contains(desc) {
			a.FriendsFamilyTransfers++
		}
		if hits := d.lenderHits(t); len(hits) > 0 {
			a.NBFCLenders = append(a.NBFCLenders, hits...)
			if hits[0].Kind == KindDisbursement {
				disbursements++
			}
		}
		a.PaydayLoanUsage = a.PaydayLoanUsage || d.payday.Contains(desc)
		a.P2PLendingDetected = a.P2PLendingDetected || d.p2p.Contains(desc)
		a.CryptoTradingDetected = a.CryptoTradingDetected || d.crypto.Contains(desc)
		if d.gambling.ContainsWord(desc) {
			a.GamblingTransactions = append(a.GamblingTransactions, t)
		}
	}
	a.LoanStackingDetected = disbursements > 1

	a.FraudScore = a.score()
	a.FraudLevel = level(a.FraudScore)
	a.Evidence = a.evidence()
	a.Recommendations = recommendations(a.FraudLevel)
	a.RequiresManualReview = a.FraudScore > manualReviewAbove
	return a
}

func (a *AdvancedFraudAnalysis) score() int {
	s := 0
	if !a.BalanceContinuity.Passed {
		s += 35
	}
	s += 10 * len(a.CircularTransactions)
	s += 15 * len(a.TemporaryCredits)
	if a.CashInflationDetected {
		s += 20
	}
	if a.LoanStackingDetected {
		s += 30
	}
	if a.PaydayLoanUsage {
		s += 25
	}
	if len(a.GamblingTransactions) > 0 {
		s += 30
	}
	if a.CryptoTradingDetected {
		s += 10
	}
	return min(s, maxScore)
}

func level(score int) string {
	switch {
	case score < 20:
		return LevelNoRisk
	case score < 40:
		return LevelLow
	case score < 60:
		return LevelMedium
	case score < 80:
		return LevelHigh
	default:
		return LevelConfirmed
	}
}

// continuity replays each row against the previous stated balance.
func continuity(txns []model.Transaction) BalanceContinuity {
	bc := BalanceContinuity{Mismatches: []Mismatch{}}
	tolerance := decimal.NewFromInt(balanceTolerance)
	for i := 1; i < len(txns); i++ {
		cur := txns[i]
		expected := txns[i-1].Balance.Add(cur.Credit).Sub(cur.Debit)
		diff := cur.Balance.Sub(expected).Abs()
		if diff.GreaterThan(tolerance) {
			bc.Mismatches = append(bc.Mismatches, Mismatch{
				Index:      i,
				Date:       cur.Date,
				Expected:   expected,
				Actual:     cur.Balance,
				Difference: diff,
			})
		}
	}
	bc.Passed = len(bc.Mismatches) == 0
	return bc
}

func gaps(txns []model.Transaction) []Gap {
	out := []Gap{}
	var prev time.Time
	for _, t := range txns {
		if !t.IsDated() {
			continue
		}
		if !prev.IsZero() {
			if days := int(t.Date.Sub(prev).Hours() / 24); days > gapDays {
				out = append(out, Gap{From: prev, To: t.Date, Days: days})
			}
		}
		prev = t.Date
	}
	return out
}

func circular(txns []model.Transaction) []CircularTransaction {
	out := []CircularTransaction{}
	tolerance := decimal.NewFromInt(circularTolerance)
	for i, sent := range txns {
		if !sent.IsDebit() || !sent.IsDated() || sent.Debit.LessThan(circularMin) {
			continue
		}
		for j := i + 1; j < len(txns) && j < i+circularWindow; j++ {
			in := txns[j]
			if !in.IsCredit() || !in.IsDated() {
				continue
			}
			days := in.Date.Sub(sent.Date).Hours() / 24
			if days >= 0 && days <= circularDays && in.Credit.Sub(sent.Debit).Abs().LessThan(tolerance) {
				out = append(out, CircularTransaction{
					OutgoingDate: sent.Date,
					IncomingDate: in.Date,
					Amount:       sent.Debit,
					Description:  sent.Description + " -> " + in.Description,
					DaysBetween:  int(days),
				})
				break
			}
		}
	}
	return out
}

func temporary(txns []model.Transaction) []TemporaryCredit {
	out := []TemporaryCredit{}
	tolerance := decimal.NewFromInt(temporaryTolerance)
	for i, in := range txns {
		if !in.IsCredit() || !in.IsDated() || in.Credit.LessThan(temporaryMin) {
			continue
		}
		for j := i + 1; j < len(txns) && j < i+temporaryWindow; j++ {
			wd := txns[j]
			if !wd.IsDebit() || !wd.IsDated() {
				continue
			}
			hours := wd.Date.Sub(in.Date).Hours()
			if hours >= 0 && hours <= temporaryHours && wd.Debit.Sub(in.Credit).Abs().LessThan(tolerance) {
				out = append(out, TemporaryCredit{
					CreditDate:   in.Date,
					CreditAmount: in.Credit,
					DebitDate:    wd.Date,
					DebitAmount:  wd.Debit,
					HoursBetween: int(hours),
					Description:  fmt.Sprintf("₹%s in, out within %d hrs", in.Credit.StringFixed(0), int(hours)),
				})
				break
			}
		}
	}
	return out
}

func (d *Detector) cashRatio(txns []model.Transaction) float64 {
	total, cash := decimal.Zero, decimal.Zero
	for _, t := range ledger.Credits(txns) {
		total = total.Add(t.Credit)
		if d.cash.Contains(t.Description) {
			cash = cash.Add(t.Credit)
		}
	}
	if total.IsZero() {
		return 0
	}
	return ledger.Float(cash.Div(total).Mul(decimal.NewFromInt(100)).Round(2))
}

// lenderHits returns one hit per non-bank lender named in t, when t is a
// disbursement or an EMI.
func (d *Detector) lenderHits(t model.Transaction) []LenderHit {
	var kind string
	switch {
	case t.IsCredit() && t.Credit.GreaterThan(disbursementMin):
		kind = KindDisbursement
	case t.IsDebit() && d.emi.ContainsWord(t.Description):
		kind = KindEMI
	default:
		return nil
	}
	var hits []LenderHit
	lower := strings.ToLower(t.Description)
	for _, lender := range d.nbfc.Terms() {
		if strings.Contains(lower, lender) {
			hits = append(hits, LenderHit{Lender: strings.ToUpper(lender), Date: t.Date, Amount: t.Amount(), Kind: kind})
		}
	}
	return hits
}

func (a *AdvancedFraudAnalysis) evidence() []Evidence {
	ev := []Evidence{}
	if n := a.CalculationErrors; n > 0 {
		ev = append(ev, Evidence{
			Category: CategoryTampering,
			Severity: SeverityCritical,
			Finding:  fmt.Sprintf("%d balance calculation error(s) detected", n),
			Details:  "Running balance does not match the transaction flow; the statement may have been edited.",
			Impact:   "HIGH - statement authenticity questionable",
		})
	}
	if n := len(a.TransactionGaps); n > 0 {
		ev = append(ev, Evidence{
			Category: CategoryTampering,
			Severity: SeverityLow,
			Finding:  fmt.Sprintf("%d gap(s) of more than %d days without transactions", n, gapDays),
			Details:  "First gap: " + a.TransactionGaps[0].String(),
			Impact:   "LOW - pages or periods may be missing",
		})
	}
	if n := len(a.CircularTransactions); n > 0 {
		ev = append(ev, Evidence{
			Category: CategoryManipulation,
			Severity: SeverityHigh,
			Finding:  fmt.Sprintf("%d circular transaction pattern(s)", n),
			Details:  "Money transferred out and returned within a short period.",
			Impact:   "HIGH - income may be artificially inflated",
		})
	}
	if n := len(a.TemporaryCredits); n > 0 {
		ev = append(ev, Evidence{
			Category: CategoryManipulation,
			Severity: SeverityCritical,
			Finding:  fmt.Sprintf("%d temporary credit(s) detected", n),
			Details:  "Large amounts credited and withdrawn again almost immediately.",
			Impact:   "CRITICAL - applicant may be hiding the true financial position",
		})
	}
	if a.CashInflationDetected {
		ev = append(ev, Evidence{
			Category: CategoryManipulation,
			Severity: SeverityHigh,
			Finding:  fmt.Sprintf("High cash deposit ratio: %.1f%%", a.CashDepositRatio),
			Details:  "Excessive cash deposits can indicate undocumented income.",
			Impact:   "HIGH - income source verification required",
		})
	}
	if a.LoanStackingDetected {
		ev = append(ev, Evidence{
			Category: CategoryHighRisk,
			Severity: SeverityCritical,
			Finding:  "Loan stacking detected - multiple NBFC loans",
			Details:  fmt.Sprintf("%d NBFC transaction(s) identified; applicant is over-leveraged.", len(a.NBFCLenders)),
			Impact:   "CRITICAL - high default risk",
		})
	}
	if a.PaydayLoanUsage {
		ev = append(ev, Evidence{
			Category: CategoryHighRisk,
			Severity: SeverityHigh,
			Finding:  "Payday loan app usage detected",
			Details:  "High-interest short-term lending apps point to financial distress.",
			Impact:   "HIGH - borrower in financial stress",
		})
	}
	if n := len(a.GamblingTransactions); n > 0 {
		ev = append(ev, Evidence{
			Category: CategoryHighRisk,
			Severity: SeverityCritical,
			Finding:  fmt.Sprintf("%d gambling transaction(s)", n),
			Details:  "Gambling activity is high-risk behavior for lending.",
			Impact:   "CRITICAL - gambling weighs on creditworthiness",
		})
	}
	if a.CryptoTradingDetected {
		ev = append(ev, Evidence{
			Category: CategoryHighRisk,
			Severity: SeverityMedium,
			Finding:  "Cryptocurrency trading detected",
			Details:  "High-volatility investment activity.",
			Impact:   "MEDIUM - income volatility risk",
		})
	}
	return ev
}

func recommendations(level string) []string {
	switch level {
	case LevelNoRisk:
		return []string{"No fraud indicators detected; statement appears authentic."}
	case LevelLow:
		return []string{"Minor concerns detected; proceed with standard verification."}
	case LevelMedium:
		return []string{
			"Multiple red flags detected; enhanced due diligence recommended.",
			"Request additional documentation and verify income sources.",
		}
	case LevelHigh:
		return []string{
			"Significant fraud indicators; thorough investigation required.",
			"Consider rejecting the application or requesting fresh statements.",
		}
	default:
		return []string{
			"CRITICAL: high probability of fraud detected.",
			"Do not proceed without comprehensive verification.",
			"Consider filing a suspicious activity report if required.",
		}
	}
}
