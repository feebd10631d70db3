// Package foir computes the fixed-obligation-to-income ratio and the loan
// amount a borrower can still service.
package foir

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/config"
	"github.com/bitmaura/finscore/internal/keywords"
	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/model"
)

// Loan types.
const (
	LoanHome       = "home"
	LoanPersonal   = "personal"
	LoanCreditCard = "credit-card"
	LoanAuto       = "auto"
	LoanBusiness   = "business"
	LoanEducation  = "education"
	LoanOther      = "other"
)

// FOIR status bands.
const (
	StatusExcellent    = "Excellent"
	StatusGood         = "Good"
	StatusBorderline   = "Borderline"
	StatusHighRisk     = "High Risk"
	StatusUnacceptable = "Unacceptable"
)

// Defaults applied to zero Options fields.
const (
	DefaultTenureMonths      = 120
	DefaultAnnualRatePercent = 10.0
	DefaultMaxFOIRPercent    = 50.0

	// IndustryStandardFOIR is the ceiling most lenders apply.
	IndustryStandardFOIR = 50.0

	recentSalaries = 6
	unknownLender  = "Unknown Lender"
)

var (
	mergeTolerance = decimal.NewFromInt(100)
	hundred        = decimal.NewFromInt(100)
)

// Options tunes the eligibility calculation.
type Options struct {
	TenureMonths        int
	AnnualRatePercent   float64
	MaxFOIRPercent      float64
	NormalizationMonths int // 0 = months covered by the statement
}

func (o Options) withDefaults() Options {
	if o.TenureMonths <= 0 {
		o.TenureMonths = DefaultTenureMonths
	}
	if o.AnnualRatePercent <= 0 {
		o.AnnualRatePercent = DefaultAnnualRatePercent
	}
	if o.MaxFOIRPercent <= 0 {
		o.MaxFOIRPercent = DefaultMaxFOIRPercent
	}
	return o
}

// ExistingLoan is a recurring obligation found in the debits.
type ExistingLoan struct {
	Type         string          `json:"type"`
	Lender       string          `json:"lender"`
	MonthlyEMI   decimal.Decimal `json:"monthly_emi"`
	DetectedFrom string          `json:"detected_from"`
	Confidence   int             `json:"confidence"`
}

// FOIRAnalysis is the output of Calculate.
type FOIRAnalysis struct {
	AverageMonthlyIncome decimal.Decimal   `json:"average_monthly_income"`
	SalaryCredits        []decimal.Decimal `json:"salary_credits"`
	OtherIncome          decimal.Decimal   `json:"other_income"`
	TotalMonthlyIncome   decimal.Decimal   `json:"total_monthly_income"`
	IncomeMethod         string            `json:"income_method"`

	HomeLoanEMI        decimal.Decimal `json:"home_loan_emi"`
	PersonalLoanEMI    decimal.Decimal `json:"personal_loan_emi"`
	AutoLoanEMI        decimal.Decimal `json:"auto_loan_emi"`
	CreditCardPayments decimal.Decimal `json:"credit_card_payments"`
	OtherEMIs          decimal.Decimal `json:"other_emis"`
	TotalObligations   decimal.Decimal `json:"total_obligations"`

	FOIR   float64 `json:"foir"` // percent, two decimals
	Status string  `json:"status"`

	MaxEligibleEMI    decimal.Decimal `json:"max_eligible_emi"`
	MaxLoanAmount     decimal.Decimal `json:"max_loan_amount"`
	RemainingCapacity decimal.Decimal `json:"remaining_capacity"`
	TenureMonths      int             `json:"tenure_months"`
	AnnualRatePercent float64         `json:"annual_rate_percent"`

	ExistingLoans        []ExistingLoan `json:"existing_loans"`
	Recommendations      []string       `json:"recommendations"`
	Warnings             []string       `json:"warnings"`
	IndustryStandardFOIR float64        `json:"industry_standard_foir"`
	BorrowerStatus       string         `json:"borrower_status"`
}

type loanKind struct {
	typ        string
	keywords   *keywords.Matcher
	lenders    *keywords.Matcher
	confidence int
}

// Calculator computes FOIR. It is read-only after New.
type Calculator struct {
	salary      *keywords.Matcher
	otherIncome *keywords.Matcher
	obligation  *keywords.Matcher
	kinds       []loanKind
}

// New compiles the FOIR dictionaries. Loan types are tried in the order home,
// personal, credit card, auto, business, education.
func New(cfg config.FOIR) *Calculator {
	kind := func(typ string, kw, lenders []string, confidence int) loanKind {
		return loanKind{typ: typ, keywords: keywords.New(kw), lenders: keywords.New(lenders), confidence: confidence}
	}
	return &Calculator{
		salary:      keywords.New(cfg.SalaryKeywords),
		otherIncome: keywords.New(cfg.OtherIncomeKeywords),
		obligation:  keywords.New(cfg.ObligationKeywords),
		kinds: []loanKind{
			kind(LoanHome, cfg.HomeKeywords, cfg.HomeLenders, 80),
			kind(LoanPersonal, cfg.PersonalKeywords, cfg.PersonalLenders, 80),
			kind(LoanCreditCard, cfg.CreditCardKeywords, cfg.CardIssuers, 90),
			kind(LoanAuto, cfg.AutoKeywords, cfg.AutoLenders, 80),
			kind(LoanBusiness, cfg.BusinessKeywords, cfg.BusinessLenders, 80),
			kind(LoanEducation, cfg.EducationKeywords, cfg.EducationLenders, 80),
		},
	}
}

// Calculate derives income, obligations, FOIR and eligibility from txns.
func (c *Calculator) Calculate(txns []model.Transaction, opts Options) FOIRAnalysis {
	opts = opts.withDefaults()
	sorted := append([]model.Transaction(nil), txns...)
	ledger.SortByDate(sorted)

	a := FOIRAnalysis{
		SalaryCredits:        []decimal.Decimal{},
		TenureMonths:         opts.TenureMonths,
		AnnualRatePercent:    opts.AnnualRatePercent,
		IndustryStandardFOIR: IndustryStandardFOIR,
		Recommendations:      []string{},
		Warnings:             []string{},
	}

	for _, t := range sorted {
		if t.IsCredit() && c.salary.Contains(t.Description) {
			a.SalaryCredits = append(a.SalaryCredits, t.Credit)
		}
	}
	recent := a.SalaryCredits[max(0, len(a.SalaryCredits)-recentSalaries):]
	if len(recent) > 0 {
		a.AverageMonthlyIncome = decimal.Sum(recent[0], recent[1:]...).Div(decimal.NewFromInt(int64(len(recent)))).Round(2)
	}
	a.IncomeMethod = fmt.Sprintf("Average of last %d salary credits", len(recent))

	other := decimal.Zero
	for _, t := range sorted {
		if t.IsCredit() && !c.salary.Contains(t.Description) && c.otherIncome.Contains(t.Description) {
			other = other.Add(t.Credit)
		}
	}
	if other.IsPositive() {
		months := ledger.NormalizationMonths(sorted, opts.NormalizationMonths)
		a.OtherIncome = other.Div(decimal.NewFromInt(int64(months))).Round(2)
	}
	a.TotalMonthlyIncome = a.AverageMonthlyIncome.Add(a.OtherIncome)

	a.ExistingLoans = c.detectLoans(sorted)
	for _, l := range a.ExistingLoans {
		switch l.Type {
		case LoanHome:
			a.HomeLoanEMI = a.HomeLoanEMI.Add(l.MonthlyEMI)
		case LoanPersonal:
			a.PersonalLoanEMI = a.PersonalLoanEMI.Add(l.MonthlyEMI)
		case LoanAuto:
			a.AutoLoanEMI = a.AutoLoanEMI.Add(l.MonthlyEMI)
		case LoanCreditCard:
			a.CreditCardPayments = a.CreditCardPayments.Add(l.MonthlyEMI)
		default:
			a.OtherEMIs = a.OtherEMIs.Add(l.MonthlyEMI)
		}
		a.TotalObligations = a.TotalObligations.Add(l.MonthlyEMI)
	}

	if a.TotalMonthlyIncome.IsPositive() {
		a.FOIR = ledger.Float(a.TotalObligations.Div(a.TotalMonthlyIncome).Mul(hundred).Round(2))
	}
	a.Status = status(a.FOIR)

	limit := a.TotalMonthlyIncome.Mul(decimal.NewFromFloat(opts.MaxFOIRPercent)).Div(hundred)
	a.MaxEligibleEMI = decimal.Max(decimal.Zero, limit.Sub(a.TotalObligations)).Round(2)
	a.RemainingCapacity = a.MaxEligibleEMI
	a.MaxLoanAmount = MaxLoanAmount(a.MaxEligibleEMI, opts.TenureMonths, opts.AnnualRatePercent)

	a.advise()
	return a
}

func (c *Calculator) detectLoans(txns []model.Transaction) []ExistingLoan {
	loans := []ExistingLoan{}
	for _, t := range txns {
		if !t.IsDebit() || !c.obligation.ContainsWord(t.Description) {
			continue
		}
		loan := c.classify(t)
		dup := false
		for _, l := range loans {
			if l.Type == loan.Type && l.MonthlyEMI.Sub(loan.MonthlyEMI).Abs().LessThan(mergeTolerance) {
				dup = true
				break
			}
		}
		if !dup {
			loans = append(loans, loan)
		}
	}
	return loans
}

func (c *Calculator) classify(t model.Transaction) ExistingLoan {
	loan := ExistingLoan{
		Type:         LoanOther,
		Lender:       unknownLender,
		MonthlyEMI:   t.Debit,
		DetectedFrom: t.Description,
		Confidence:   50,
	}
	for _, k := range c.kinds {
		if !k.keywords.ContainsWord(t.Description) {
			continue
		}
		loan.Type, loan.Confidence = k.typ, k.confidence
		lender := k.lenders.First(t.Description)
		switch {
		case k.typ == LoanCreditCard && lender != "":
			loan.Lender = strings.ToUpper(lender) + " Credit Card"
		case k.typ == LoanCreditCard:
			loan.Lender = "Credit Card"
		case lender != "":
			loan.Lender, loan.Confidence = strings.ToUpper(lender), 95
		}
		break
	}
	return loan
}

func status(foir float64) string {
	switch {
	case foir < 25:
		return StatusExcellent
	case foir < 40:
		return StatusGood
	case foir < 50:
		return StatusBorderline
	case foir < 60:
		return StatusHighRisk
	default:
		return StatusUnacceptable
	}
}

// MaxLoanAmount is the principal an EMI repays over tenureMonths at the given
// annual rate, rounded down to the rupee.
func MaxLoanAmount(emi decimal.Decimal, tenureMonths int, annualRatePercent float64) decimal.Decimal {
	e := ledger.Float(emi)
	if e <= 0 || tenureMonths <= 0 {
		return decimal.Zero
	}
	n := float64(tenureMonths)
	r := annualRatePercent / 12 / 100
	if r == 0 {
		return decimal.NewFromFloat(math.Floor(e * n))
	}
	growth := math.Pow(1+r, n)
	return decimal.NewFromFloat(math.Floor(e * (growth - 1) / (r * growth)))
}

func (a *FOIRAnalysis) advise() {
	switch a.Status {
	case StatusExcellent:
		a.Recommendations = append(a.Recommendations,
			"Low obligations against income; strong borrowing capacity",
			fmt.Sprintf("An additional EMI of up to ₹%s per month is serviceable", a.MaxEligibleEMI.StringFixed(0)))
	case StatusGood:
		a.Recommendations = append(a.Recommendations,
			"Obligations are serviceable with moderate headroom",
			"Keep current EMI discipline")
	case StatusBorderline:
		a.Warnings = append(a.Warnings, "FOIR is near the lending limit; little room for new borrowing")
		a.Recommendations = append(a.Recommendations, "Reduce existing debt or raise income before a new loan")
	case StatusHighRisk:
		a.Warnings = append(a.Warnings,
			"Debt burden is above the safe limit",
			"New credit is unlikely to be approved until obligations come down")
	default:
		a.Warnings = append(a.Warnings,
			"FOIR is beyond what most lenders accept",
			"Debt consolidation or higher income is needed first")
		a.Recommendations = append(a.Recommendations, "Do not extend additional credit now")
	}

	if n := len(a.ExistingLoans); n > 3 {
		a.Warnings = append(a.Warnings, fmt.Sprintf("%d concurrent loans detected; consider consolidation", n))
	}
	if a.CreditCardPayments.GreaterThan(a.TotalMonthlyIncome.Mul(decimal.NewFromFloat(0.1))) {
		a.Warnings = append(a.Warnings, "Credit card payments exceed 10% of income")
	}

	switch a.Status {
	case StatusExcellent, StatusGood:
		a.BorrowerStatus = "Strong borrower profile"
	case StatusBorderline:
		a.BorrowerStatus = "Moderate risk borrower"
	default:
		a.BorrowerStatus = "High risk borrower"
	}
}
