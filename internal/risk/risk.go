// Package risk combines the categorized ledger and its summary into one
// risk score, a health score and a creditworthiness score.
package risk

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/config"
	"github.com/bitmaura/finscore/internal/keywords"
	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/model"
	"github.com/bitmaura/finscore/internal/summary"
)

// Risk levels.
const (
	LevelLow      = "Low"
	LevelMedium   = "Medium"
	LevelHigh     = "High"
	LevelCritical = "Critical"
)

// Factor impacts.
const (
	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"
)

// Factor names.
const (
	FactorLowBalance   = "Low Balance"
	FactorExpenseRatio = "High Expense Ratio"
	FactorATMUsage     = "Heavy ATM Usage"
	FactorBounces      = "Bounced Cheques"
	FactorLoanBurden   = "High Loan EMI Ratio"
	FactorGambling     = "Gambling Activity"
	FactorThinSalary   = "Irregular Salary"
)

const (
	maxRisk          = 100
	atmCountMin      = 20
	thinSalaryMin    = 3
	thinSalaryTxnMin = 30
)

var (
	lowBalanceWarn     = decimal.NewFromInt(5000)
	lowBalanceCritical = decimal.NewFromInt(1000)
)

// Factor is one triggered risk condition.
type Factor struct {
	Name        string `json:"name"`
	Impact      string `json:"impact"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// RiskAssessment is the output of Assess.
type RiskAssessment struct {
	RiskScore             int      `json:"risk_score"` // 0-100, higher is riskier
	RiskLevel             string   `json:"risk_level"`
	FinancialHealthScore  int      `json:"financial_health_score"`
	CreditworthinessScore int      `json:"creditworthiness_score"`
	Factors               []Factor `json:"factors"`
	Recommendations       []string `json:"recommendations"`
	BouncedCheques        int      `json:"bounced_cheques"`
	ATMWithdrawals        int      `json:"atm_withdrawals"`
	ATMExpenseShare       float64  `json:"atm_expense_share"`
	LoanEMIRatio          float64  `json:"loan_emi_ratio"`
	GamblingTransactions  int      `json:"gambling_transactions"`
	SalaryCredits         int      `json:"salary_credits"`

	Cashflow      Cashflow       `json:"cashflow"`
	ChequeReturns []ChequeReturn `json:"cheque_returns"`
}

// Assessor scores risk. It is read-only after New.
type Assessor struct {
	salaryCategory string
	loanCategory   string

	atm      *keywords.Matcher
	bounce   *keywords.Matcher
	emi      *keywords.Matcher
	gambling *keywords.Matcher
}

// New compiles the risk dictionaries.
func New(cfg config.Risk) *Assessor {
	return &Assessor{
		salaryCategory: cfg.SalaryCategory,
		loanCategory:   cfg.LoanCategory,
		atm:            keywords.New(cfg.ATMKeywords),
		bounce:         keywords.New(cfg.BounceKeywords),
		emi:            keywords.New(cfg.EMIKeywords),
		gambling:       keywords.New(cfg.GamblingKeywords),
	}
}

// Assess scores categorized txns together with their summary.
func (a *Assessor) Assess(txns []model.Transaction, s summary.FinancialSummary) RiskAssessment {
	r := RiskAssessment{
		Factors:       []Factor{},
		ChequeReturns: []ChequeReturn{},
		Cashflow:      cashflow(txns),
	}

	atmTotal, emiTotal := decimal.Zero, decimal.Zero
	for _, t := range txns {
		d := t.Description
		if t.IsDebit() && a.atm.Contains(d) {
			r.ATMWithdrawals++
			atmTotal = atmTotal.Add(t.Debit)
		}
		if a.bounce.Contains(d) {
			r.BouncedCheques++
			r.ChequeReturns = append(r.ChequeReturns, chequeReturn(t))
		}
		if t.IsDebit() && (t.Category == a.loanCategory || a.emi.ContainsWord(d)) {
			emiTotal = emiTotal.Add(t.Debit)
		}
		if a.gambling.ContainsWord(d) {
			r.GamblingTransactions++
		}
		if t.IsCredit() && t.Category == a.salaryCategory {
			r.SalaryCredits++
		}
	}
	if s.TotalExpenses.IsPositive() {
		r.ATMExpenseShare = percent(atmTotal, s.TotalExpenses)
	}
	if s.TotalIncome.IsPositive() {
		r.LoanEMIRatio = percent(emiTotal, s.TotalIncome)
	}
	expenseRatio := s.ExpenseRatio()

	if s.TransactionCount > 0 {
		switch {
		case s.LowestBalance.IsNegative():
			r.add(FactorLowBalance, ImpactHigh, 25, fmt.Sprintf("Balance went negative (lowest ₹%s)", s.LowestBalance.StringFixed(2)))
		case s.LowestBalance.LessThan(lowBalanceCritical):
			r.add(FactorLowBalance, ImpactHigh, 20, fmt.Sprintf("Balance fell below ₹1,000 (lowest ₹%s)", s.LowestBalance.StringFixed(2)))
		case s.LowestBalance.LessThan(lowBalanceWarn):
			r.add(FactorLowBalance, ImpactMedium, 10, fmt.Sprintf("Balance fell below ₹5,000 (lowest ₹%s)", s.LowestBalance.StringFixed(2)))
		}
	}

	switch {
	case expenseRatio > 110:
		r.add(FactorExpenseRatio, ImpactHigh, 20, fmt.Sprintf("Expenses are %.1f%% of income", expenseRatio))
	case expenseRatio > 90:
		r.add(FactorExpenseRatio, ImpactMedium, 10, fmt.Sprintf("Expenses are %.1f%% of income", expenseRatio))
	}

	if r.ATMWithdrawals > atmCountMin {
		switch {
		case r.ATMExpenseShare > 50:
			r.add(FactorATMUsage, ImpactMedium, 15, fmt.Sprintf("%d ATM withdrawals make up %.1f%% of expenses", r.ATMWithdrawals, r.ATMExpenseShare))
		case r.ATMExpenseShare > 30:
			r.add(FactorATMUsage, ImpactLow, 10, fmt.Sprintf("%d ATM withdrawals make up %.1f%% of expenses", r.ATMWithdrawals, r.ATMExpenseShare))
		}
	}

	switch n := r.BouncedCheques; {
	case n >= 3:
		r.add(FactorBounces, ImpactHigh, 30, fmt.Sprintf("%d bounced cheques or returned payments", n))
	case n > 0:
		r.add(FactorBounces, ImpactHigh, 20, fmt.Sprintf("%d bounced cheque(s) or returned payment(s)", n))
	}

	switch {
	case r.LoanEMIRatio > 60:
		r.add(FactorLoanBurden, ImpactHigh, 15, fmt.Sprintf("Loan EMIs take %.1f%% of income", r.LoanEMIRatio))
	case r.LoanEMIRatio > 40:
		r.add(FactorLoanBurden, ImpactMedium, 10, fmt.Sprintf("Loan EMIs take %.1f%% of income", r.LoanEMIRatio))
	}

	if n := r.GamblingTransactions; n > 0 {
		r.add(FactorGambling, ImpactHigh, 20, fmt.Sprintf("%d gambling transaction(s)", n))
	}

	if r.SalaryCredits < thinSalaryMin && len(txns) > thinSalaryTxnMin {
		r.add(FactorThinSalary, ImpactMedium, 10, fmt.Sprintf("Only %d salary credit(s) across %d transactions", r.SalaryCredits, len(txns)))
	}

	r.RiskScore = min(r.RiskScore, maxRisk)
	r.RiskLevel = level(r.RiskScore)
	r.FinancialHealthScore = maxRisk - r.RiskScore

	credit := 100 - 15*r.BouncedCheques
	if expenseRatio > 90 {
		credit -= 20
	}
	if s.TransactionCount > 0 && s.LowestBalance.LessThan(lowBalanceCritical) {
		credit -= 15
	}
	r.CreditworthinessScore = max(0, min(100, credit))

	r.Recommendations = r.recommend()
	return r
}

func (r *RiskAssessment) add(name, impact string, points int, desc string) {
	r.Factors = append(r.Factors, Factor{Name: name, Impact: impact, Description: desc, Points: points})
	r.RiskScore += points
}

func level(score int) string {
	switch {
	case score < 25:
		return LevelLow
	case score < 50:
		return LevelMedium
	case score < 75:
		return LevelHigh
	default:
		return LevelCritical
	}
}

var factorAdvice = map[string]string{
	FactorLowBalance:   "Maintain a higher minimum balance to avoid overdrafts and charges",
	FactorExpenseRatio: "Reduce discretionary spending; expenses are close to or above income",
	FactorATMUsage:     "Shift cash withdrawals to traceable digital payments",
	FactorBounces:      "Keep sufficient funds before issuing cheques or mandates",
	FactorLoanBurden:   "Avoid new borrowing until existing EMIs come down",
	FactorGambling:     "Gambling activity weighs on creditworthiness; review this spending",
	FactorThinSalary:   "Provide additional income proof; salary credits are irregular",
}

func (r *RiskAssessment) recommend() []string {
	recs := []string{}
	for _, f := range r.Factors {
		recs = append(recs, factorAdvice[f.Name])
	}
	if r.RiskLevel == LevelLow {
		recs = append(recs, "Financial profile is stable with low risk indicators; keep up the current habits")
	}
	return recs
}

func percent(part, whole decimal.Decimal) float64 {
	return ledger.Float(part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2))
}
