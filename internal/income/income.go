// Package income verifies salary and other income against the statement and
// looks for signs that income was inflated.
package income

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/config"
	"github.com/bitmaura/finscore/internal/keywords"
	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/model"
)

// Verification statuses.
const (
	StatusVerified    = "Verified"
	StatusNeedsReview = "Needs Review"
	StatusMismatch    = "Mismatch"
	StatusSuspicious  = "Suspicious"
)

// Salary trends.
const (
	TrendIncreasing = "Increasing"
	TrendStable     = "Stable"
	TrendDecreasing = "Decreasing"
	TrendIrregular  = "Irregular"
)

// Income source types.
const (
	SourceSalary     = "salary"
	SourceRental     = "rental"
	SourceInvestment = "investment"
	SourceFreelance  = "freelance"
)

var (
	employerAfter  = regexp.MustCompile(`(?i)SAL(?:ARY)?\s+(?:FROM|CR|CREDIT)\s+([A-Z\s&]+)`)
	employerBefore = regexp.MustCompile(`(?i)([A-Z\s&]+)\s+SAL(?:ARY)?`)
	roundSalary    = decimal.NewFromInt(10000)
)

// SalaryCredit is one credit recognized as salary.
type SalaryCredit struct {
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	DayOfMonth  int             `json:"day_of_month"` // 0 when undated
	Employer    string          `json:"employer,omitempty"`
}

// Source is one stream of income, averaged per month.
type Source struct {
	Type           string          `json:"type"`
	Description    string          `json:"description"`
	MonthlyAverage decimal.Decimal `json:"monthly_average"`
	Regular        bool            `json:"regular"`
	Percentage     float64         `json:"percentage"`
}

// IncomeVerificationResult is the output of Verify.
type IncomeVerificationResult struct {
	IsSalaried        bool            `json:"is_salaried"`
	Employer          string          `json:"employer,omitempty"`
	SalaryAccount     bool            `json:"salary_account"`
	SalaryCredits     []SalaryCredit  `json:"salary_credits"`
	AverageSalary     decimal.Decimal `json:"average_salary"`
	SalaryDay         int             `json:"salary_day,omitempty"`
	SalaryConsistency int             `json:"salary_consistency"`
	SalaryTrend       string          `json:"salary_trend"`

	Sources                 []Source        `json:"sources"`
	TotalMonthlyIncome      decimal.Decimal `json:"total_monthly_income"`
	PrimaryIncomePercentage float64         `json:"primary_income_percentage"`
	DiversificationScore    float64         `json:"diversification_score"`
	NormalizationMonths     int             `json:"normalization_months"`

	DeclaredIncome     decimal.Decimal `json:"declared_income"`
	IncomeVariance     *float64        `json:"income_variance,omitempty"` // percent; nil without a declared figure
	VerificationStatus string          `json:"verification_status"`

	CashDepositRatio float64  `json:"cash_deposit_ratio"`
	RedFlags         []string `json:"red_flags"`
	SuspicionScore   int      `json:"suspicion_score"`
	Recommendations  []string `json:"recommendations"`
}

// Verifier runs income verification. It is read-only after New.
type Verifier struct {
	salary     *keywords.Matcher
	rental     *keywords.Matcher
	investment *keywords.Matcher
	freelance  *keywords.Matcher
	cash       *keywords.Matcher
	months     int
}

// New compiles the income dictionaries. normalizationMonths fixes the window
// monthly averages are taken over; 0 uses the months the statement covers.
func New(cfg config.Income, normalizationMonths int) *Verifier {
	return &Verifier{
		salary:     keywords.New(cfg.SalaryKeywords),
		rental:     keywords.New(cfg.RentalKeywords),
		investment: keywords.New(cfg.InvestmentKeywords),
		freelance:  keywords.New(cfg.FreelanceKeywords),
		cash:       keywords.New(cfg.CashKeywords),
		months:     normalizationMonths,
	}
}

// Verify checks txns against declared monthly income. A zero declared value
// means none was given.
func (v *Verifier) Verify(txns []model.Transaction, declared decimal.Decimal) IncomeVerificationResult {
	credits := v.salaryCredits(txns)
	res := IncomeVerificationResult{
		SalaryCredits:   credits,
		IsSalaried:      len(credits) >= 2,
		DeclaredIncome:  declared,
		RedFlags:        []string{},
		Recommendations: []string{},
	}

	res.SalaryConsistency, res.SalaryDay, res.SalaryTrend = consistency(credits)
	res.SalaryAccount = len(credits) >= 3 && res.SalaryConsistency > 60
	if len(credits) > 0 {
		sum := decimal.Zero
		for _, c := range credits {
			sum = sum.Add(c.Amount)
			if res.Employer == "" && len(c.Employer) > 3 {
				res.Employer = c.Employer
			}
		}
		res.AverageSalary = sum.Div(decimal.NewFromInt(int64(len(credits)))).Round(2)
	}

	res.NormalizationMonths = ledger.NormalizationMonths(txns, v.months)
	res.Sources = v.sources(txns, res.NormalizationMonths)
	for _, s := range res.Sources {
		res.TotalMonthlyIncome = res.TotalMonthlyIncome.Add(s.MonthlyAverage)
		res.PrimaryIncomePercentage = math.Max(res.PrimaryIncomePercentage, s.Percentage)
	}
	if len(res.Sources) > 0 {
		res.DiversificationScore = math.Min(100, float64(20*len(res.Sources))+(100-res.PrimaryIncomePercentage))
	}

	v.redFlags(txns, &res)

	res.VerificationStatus = StatusVerified
	if declared.IsPositive() {
		variance := ledger.Float(res.TotalMonthlyIncome.Sub(declared).Div(declared).Mul(decimal.NewFromInt(100)))
		variance = math.Round(variance*100) / 100
		res.IncomeVariance = &variance
		switch abs := math.Abs(variance); {
		case abs < 5:
		case abs < 15:
			res.VerificationStatus = StatusNeedsReview
			res.RedFlags = append(res.RedFlags, fmt.Sprintf("Detected income differs from declared by %.1f%%", variance))
		default:
			res.VerificationStatus = StatusMismatch
			dir := "lower"
			if variance > 0 {
				dir = "higher"
			}
			res.RedFlags = append(res.RedFlags, fmt.Sprintf("Significant mismatch: statement shows %s income than declared", dir))
		}
	}
	if res.SuspicionScore > 50 {
		res.VerificationStatus = StatusSuspicious
	}

	if res.IsSalaried && res.SalaryAccount && res.SalaryConsistency > 70 {
		res.Recommendations = append(res.Recommendations, "Consistent salary credits support the declared income")
	}
	if !res.IsSalaried {
		res.Recommendations = append(res.Recommendations, "No regular salary found; ask for ITR or GST returns as income proof")
	}
	if len(res.RedFlags) > 0 {
		res.Recommendations = append(res.Recommendations, "Verify income manually before sanction")
	}
	if len(res.Sources) > 2 {
		res.Recommendations = append(res.Recommendations, "Several income sources add stability")
	}
	return res
}

func (v *Verifier) salaryCredits(txns []model.Transaction) []SalaryCredit {
	credits := []SalaryCredit{}
	for _, t := range txns {
		if !t.IsCredit() || !v.salary.Contains(t.Description) {
			continue
		}
		c := SalaryCredit{
			Date:        t.Date,
			Amount:      t.Credit,
			Description: t.Description,
			Employer:    employer(t.Description),
		}
		if t.IsDated() {
			c.DayOfMonth = t.Date.Day()
		}
		credits = append(credits, c)
	}
	sort.SliceStable(credits, func(i, j int) bool { return credits[i].Date.Before(credits[j].Date) })
	return credits
}

func employer(desc string) string {
	if m := employerAfter.FindStringSubmatch(desc); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := employerBefore.FindStringSubmatch(desc); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// consistency scores how regular salary days and amounts are. It needs two
// credits; the trend needs three. Undated credits count toward the amounts
// only.
func consistency(credits []SalaryCredit) (score, salaryDay int, trend string) {
	if len(credits) < 2 {
		return 0, 0, TrendIrregular
	}

	var days []float64
	amounts := make([]float64, len(credits))
	freq := make(map[int]int)
	for i, c := range credits {
		amounts[i] = ledger.Float(c.Amount)
		if c.DayOfMonth == 0 {
			continue
		}
		days = append(days, float64(c.DayOfMonth))
		freq[c.DayOfMonth]++
	}
	for day, n := range freq {
		if n > freq[salaryDay] || (n == freq[salaryDay] && day < salaryDay) {
			salaryDay = day
		}
	}

	dayScore := 20.0
	if len(days) > 0 {
		switch daySD := stdDev(days); {
		case daySD < 5:
			dayScore = 100
		case daySD < 10:
			dayScore = 70
		case daySD < 15:
			dayScore = 40
		}
	}

	avg := mean(amounts)
	dev := 0.0
	for _, a := range amounts {
		dev += math.Abs((a-avg)/avg) * 100
	}
	dev /= float64(len(amounts))
	amountScore := 30.0
	switch {
	case dev < 5:
		amountScore = 100
	case dev < 10:
		amountScore = 80
	case dev < 20:
		amountScore = 60
	}

	trend = TrendIrregular
	if third := len(amounts) / 3; third > 0 {
		first, last := mean(amounts[:third]), mean(amounts[len(amounts)-third:])
		change := (last - first) / first * 100
		switch {
		case change > 10:
			trend = TrendIncreasing
		case change < -10:
			trend = TrendDecreasing
		case dev < 15:
			trend = TrendStable
		}
	}
	return int(math.Round(0.4*dayScore + 0.6*amountScore)), salaryDay, trend
}

func (v *Verifier) sources(txns []model.Transaction, months int) []Source {
	kinds := []struct {
		typ, desc string
		regular   bool
		matcher   *keywords.Matcher
	}{
		{SourceSalary, "Regular salary income", true, v.salary},
		{SourceRental, "Rental income", true, v.rental},
		{SourceInvestment, "Investment returns", false, v.investment},
		{SourceFreelance, "Freelance and consulting income", false, v.freelance},
	}

	div := decimal.NewFromInt(int64(months))
	out := []Source{}
	total := decimal.Zero
	for _, k := range kinds {
		sum, found := decimal.Zero, false
		for _, t := range txns {
			if t.IsCredit() && k.matcher.Contains(t.Description) {
				sum, found = sum.Add(t.Credit), true
			}
		}
		if !found {
			continue
		}
		avg := sum.Div(div).Round(2)
		total = total.Add(avg)
		out = append(out, Source{Type: k.typ, Description: k.desc, MonthlyAverage: avg, Regular: k.regular})
	}
	if total.IsPositive() {
		for i := range out {
			out[i].Percentage = ledger.Float(out[i].MonthlyAverage.Div(total).Mul(decimal.NewFromInt(100)).Round(2))
		}
	}
	return out
}

func (v *Verifier) redFlags(txns []model.Transaction, res *IncomeVerificationResult) {
	credits := res.SalaryCredits
	score := 0
	flag := func(points int, msg string) {
		res.RedFlags = append(res.RedFlags, msg)
		score += points
	}

	weekend := 0
	for _, c := range credits {
		if wd := c.Date.Weekday(); !c.Date.IsZero() && (wd == time.Saturday || wd == time.Sunday) {
			weekend++
		}
	}
	if weekend > 0 {
		flag(30, fmt.Sprintf("%d salary credit(s) landed on a weekend", weekend))
	}

	if len(credits) >= 3 {
		lo, hi := credits[0].Amount, credits[0].Amount
		for _, c := range credits[1:] {
			lo, hi = decimal.Min(lo, c.Amount), decimal.Max(hi, c.Amount)
		}
		if lo.IsPositive() {
			variability := ledger.Float(hi.Sub(lo).Div(lo).Mul(decimal.NewFromInt(100)))
			if variability > 30 {
				flag(20, fmt.Sprintf("Salary varies by %.0f%% between credits", variability))
			}
		}
	}

	perMonth := make(map[string]int)
	for _, c := range credits {
		if !c.Date.IsZero() {
			perMonth[c.Date.Format("2006-01")]++
		}
	}
	for _, n := range perMonth {
		if n > 1 {
			flag(25, "More than one salary credit in the same month")
			break
		}
	}

	totalCredits, cash := decimal.Zero, decimal.Zero
	for _, t := range txns {
		if !t.IsCredit() {
			continue
		}
		totalCredits = totalCredits.Add(t.Credit)
		if v.cash.Contains(t.Description) {
			cash = cash.Add(t.Credit)
		}
	}
	if totalCredits.IsPositive() {
		res.CashDepositRatio = ledger.Float(cash.Div(totalCredits).Mul(decimal.NewFromInt(100)).Round(2))
		if res.CashDepositRatio > 30 {
			flag(35, fmt.Sprintf("Cash deposits make up %.1f%% of credits", res.CashDepositRatio))
		}
	}

	if n := circular(txns); n > 0 {
		flag(40, fmt.Sprintf("%d circular transaction pattern(s): money moved out and came back", n))
	}

	round := 0
	for _, c := range credits {
		if c.Amount.Mod(roundSalary).IsZero() {
			round++
		}
	}
	if float64(round) > float64(len(credits))*0.5 {
		flag(15, "Most salary credits are round multiples of 10,000")
	}

	if n := temporary(txns); n > 0 {
		flag(30, fmt.Sprintf("%d temporary credit(s): a large credit withdrawn almost at once", n))
	}

	res.SuspicionScore = min(100, score)
}

// circular counts debits matched by a credit of nearly the same amount within
// the next 20 entries and 7 days.
func circular(txns []model.Transaction) int {
	n := 0
	for i, cur := range txns {
		if !cur.IsDebit() || !cur.IsDated() {
			continue
		}
		for j := i + 1; j < len(txns) && j < i+20; j++ {
			next := txns[j]
			if !next.IsCredit() || !next.IsDated() {
				continue
			}
			days := math.Abs(next.Date.Sub(cur.Date).Hours() / 24)
			if days <= 7 && next.Credit.Sub(cur.Debit).Abs().LessThan(decimal.NewFromInt(100)) {
				n++
				break
			}
		}
	}
	return n
}

// temporary counts credits of at least 10,000 withdrawn again, give or take
// 1,000, within the next 10 entries and 72 hours.
func temporary(txns []model.Transaction) int {
	n := 0
	for i, cur := range txns {
		if !cur.IsCredit() || !cur.IsDated() || cur.Credit.LessThan(roundSalary) {
			continue
		}
		for j := i + 1; j < len(txns) && j < i+10; j++ {
			next := txns[j]
			if !next.IsDebit() || !next.IsDated() {
				continue
			}
			hours := next.Date.Sub(cur.Date).Hours()
			if hours >= 0 && hours <= 72 && next.Debit.Sub(cur.Credit).Abs().LessThan(decimal.NewFromInt(1000)) {
				n++
				break
			}
		}
	}
	return n
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stdDev(xs []float64) float64 {
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		sum += (x - m) * (x - m)
	}
	return math.Sqrt(sum / float64(len(xs)))
}
