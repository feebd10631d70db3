// Package behavior scores how an account is run: its age, the balances kept,
// payment habits and cheque discipline.
package behavior

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/config"
	"github.com/bitmaura/finscore/internal/keywords"
	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/model"
)

// Account vintage buckets.
const (
	VintageNew     = "New"
	VintageRegular = "Regular"
	VintageMature  = "Mature"
	VintageLegacy  = "Legacy"
)

// Behavior ratings.
const (
	RatingExcellent = "Excellent"
	RatingGood      = "Good"
	RatingAverage   = "Average"
	RatingPoor      = "Poor"
	RatingVeryPoor  = "Very Poor"
)

// AccountVintage is how long the statement shows the account in use.
type AccountVintage struct {
	FirstTransaction time.Time `json:"first_transaction"`
	LastTransaction  time.Time `json:"last_transaction"`
	AgeMonths        int       `json:"age_months"`
	Status           string    `json:"status"`
	MeetsMinimumAge  bool      `json:"meets_minimum_age"`
	MinimumRequired  int       `json:"minimum_required"`
}

// BalanceBehavior summarizes the stated balances.
type BalanceBehavior struct {
	AverageBalance    decimal.Decimal `json:"average_balance"`
	MinimumMaintained bool            `json:"minimum_maintained"`
	ZeroBalanceDays   int             `json:"zero_balance_days"`
	BelowMinimumCount int             `json:"below_minimum_count"`
	Volatility        float64         `json:"volatility"` // 0-100
	HighestBalance    decimal.Decimal `json:"highest_balance"`
	LowestBalance     decimal.Decimal `json:"lowest_balance"`
}

// TransactionPatterns describes how the account is used.
type TransactionPatterns struct {
	TotalTransactions  int     `json:"total_transactions"`
	AveragePerMonth    float64 `json:"average_per_month"`
	DigitalRatio       float64 `json:"digital_ratio"`
	International      int     `json:"international"`
	OverdraftUsage     int     `json:"overdraft_usage"`
	ChequeTransactions int     `json:"cheque_transactions"`
}

// FinancialDiscipline records the habits that lenders reward.
type FinancialDiscipline struct {
	InsurancePremiums bool `json:"insurance_premiums"`
	SIPInvestments    bool `json:"sip_investments"`
	RegularSavings    bool `json:"regular_savings"`
	NoLateFees        bool `json:"no_late_fees"`
	NoEMIBounces      bool `json:"no_emi_bounces"`
	Score             int  `json:"score"` // 0-100
}

// BankingBehaviorScore is the output of Score.
type BankingBehaviorScore struct {
	Vintage    AccountVintage      `json:"vintage"`
	Balance    BalanceBehavior     `json:"balance"`
	Patterns   TransactionPatterns `json:"patterns"`
	Discipline FinancialDiscipline `json:"discipline"`

	InwardChequeReturns  int             `json:"inward_cheque_returns"`
	OutwardChequeReturns int             `json:"outward_cheque_returns"`
	ChequeReturnCharges  decimal.Decimal `json:"cheque_return_charges"`

	Score           int      `json:"score"`
	Rating          string   `json:"rating"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// Scorer computes banking behavior scores. It is read-only after New.
type Scorer struct {
	minimumBalance decimal.Decimal
	minimumVintage int

	digital       *keywords.Matcher
	international *keywords.Matcher
	overdraft     *keywords.Matcher
	cheque        *keywords.Matcher
	insurance     *keywords.Matcher
	sip           *keywords.Matcher
	rd            *keywords.Matcher
	lateFee       *keywords.Matcher
	emiBounce     *keywords.Matcher
	inward        *keywords.Matcher
	outward       *keywords.Matcher
	charges       *keywords.Matcher
}

// New compiles the behavior dictionaries.
func New(cfg config.Behavior) *Scorer {
	return &Scorer{
		minimumBalance: decimal.NewFromFloat(cfg.MinimumBalance),
		minimumVintage: cfg.MinimumVintageMonths,
		digital:        keywords.New(cfg.DigitalKeywords),
		international:  keywords.New(cfg.InternationalKeywords),
		overdraft:      keywords.New(cfg.OverdraftKeywords),
		cheque:         keywords.New(cfg.ChequeKeywords),
		insurance:      keywords.New(cfg.InsuranceKeywords),
		sip:            keywords.New(cfg.SIPKeywords),
		rd:             keywords.New(cfg.RDKeywords),
		lateFee:        keywords.New(cfg.LateFeeKeywords),
		emiBounce:      keywords.New(cfg.EMIBounceKeywords),
		inward:         keywords.New(cfg.InwardReturnKeywords),
		outward:        keywords.New(cfg.OutwardReturnKeywords),
		charges:        keywords.New(cfg.ReturnChargeKeywords),
	}
}

// Score rates the account behind txns.
func (s *Scorer) Score(txns []model.Transaction) BankingBehaviorScore {
	b := BankingBehaviorScore{
		Vintage:             s.vintage(txns),
		Balance:             s.balances(txns),
		Patterns:            s.patterns(txns),
		Discipline:          s.discipline(txns),
		ChequeReturnCharges: decimal.Zero,
	}
	for _, t := range txns {
		if s.inward.Contains(t.Description) {
			b.InwardChequeReturns++
		}
		if s.outward.Contains(t.Description) {
			b.OutwardChequeReturns++
		}
		if t.IsDebit() && s.charges.Contains(t.Description) {
			b.ChequeReturnCharges = b.ChequeReturnCharges.Add(t.Debit)
		}
	}

	b.Score = b.total()
	b.Rating = rating(b.Score)
	b.insights()
	return b
}

func (s *Scorer) vintage(txns []model.Transaction) AccountVintage {
	v := AccountVintage{Status: VintageNew, MinimumRequired: s.minimumVintage}
	first, last, ok := ledger.Span(txns)
	if !ok {
		return v
	}
	v.FirstTransaction, v.LastTransaction = first, last
	v.AgeMonths = int(last.Sub(first).Hours() / 24 / 30)
	switch {
	case v.AgeMonths < 6:
		v.Status = VintageNew
	case v.AgeMonths < 24:
		v.Status = VintageRegular
	case v.AgeMonths < 60:
		v.Status = VintageMature
	default:
		v.Status = VintageLegacy
	}
	v.MeetsMinimumAge = v.AgeMonths >= s.minimumVintage
	return v
}

func (s *Scorer) balances(txns []model.Transaction) BalanceBehavior {
	var bb BalanceBehavior
	if len(txns) == 0 {
		return bb
	}
	sum := decimal.Zero
	bb.HighestBalance, bb.LowestBalance = txns[0].Balance, txns[0].Balance
	for _, t := range txns {
		sum = sum.Add(t.Balance)
		bb.HighestBalance = decimal.Max(bb.HighestBalance, t.Balance)
		bb.LowestBalance = decimal.Min(bb.LowestBalance, t.Balance)
		if t.Balance.LessThan(s.minimumBalance) {
			bb.BelowMinimumCount++
		}
		if t.Balance.IsZero() {
			bb.ZeroBalanceDays++
		}
	}
	n := float64(len(txns))
	mean := sum.Div(decimal.NewFromInt(int64(len(txns))))
	bb.AverageBalance = mean.Round(2)
	bb.MinimumMaintained = float64(bb.BelowMinimumCount)/n < 0.1

	m := ledger.Float(mean)
	if m > 0 {
		variance := 0.0
		for _, t := range txns {
			d := ledger.Float(t.Balance) - m
			variance += d * d
		}
		sigma := math.Sqrt(variance / n)
		bb.Volatility = math.Round(math.Min(100, sigma/m*100)*100) / 100
	}
	return bb
}

func (s *Scorer) patterns(txns []model.Transaction) TransactionPatterns {
	p := TransactionPatterns{TotalTransactions: len(txns)}
	if len(txns) == 0 {
		return p
	}
	months := 1.0
	if first, last, ok := ledger.Span(txns); ok {
		months = math.Max(1, last.Sub(first).Hours()/24/30)
	}
	p.AveragePerMonth = math.Round(float64(len(txns))/months*100) / 100

	digital := 0
	for _, t := range txns {
		d := t.Description
		if s.digital.Contains(d) {
			digital++
		}
		if s.international.ContainsWord(d) {
			p.International++
		}
		if s.overdraft.ContainsWord(d) {
			p.OverdraftUsage++
		}
		if s.cheque.Contains(d) {
			p.ChequeTransactions++
		}
	}
	p.DigitalRatio = math.Round(float64(digital)/float64(len(txns))*10000) / 100
	return p
}

func (s *Scorer) discipline(txns []model.Transaction) FinancialDiscipline {
	fd := FinancialDiscipline{NoLateFees: true, NoEMIBounces: true}
	for _, t := range txns {
		d := t.Description
		if t.IsDebit() {
			fd.InsurancePremiums = fd.InsurancePremiums || s.insurance.ContainsWord(d)
			fd.SIPInvestments = fd.SIPInvestments || s.sip.ContainsWord(d)
			fd.RegularSavings = fd.RegularSavings || s.rd.ContainsWord(d)
		}
		if s.lateFee.Contains(d) {
			fd.NoLateFees = false
		}
		if s.emiBounce.Contains(d) {
			fd.NoEMIBounces = false
		}
	}
	for _, part := range []struct {
		ok     bool
		points int
	}{
		{fd.InsurancePremiums, 25},
		{fd.SIPInvestments, 25},
		{fd.RegularSavings, 20},
		{fd.NoLateFees, 15},
		{fd.NoEMIBounces, 15},
	} {
		if part.ok {
			fd.Score += part.points
		}
	}
	return fd
}

func (b *BankingBehaviorScore) total() int {
	score := 0.0
	switch {
	case !b.Vintage.MeetsMinimumAge:
		score += 5
	case b.Vintage.Status == VintageLegacy:
		score += 20
	case b.Vintage.Status == VintageMature:
		score += 18
	case b.Vintage.Status == VintageRegular:
		score += 15
	default:
		score += 10
	}

	if b.Balance.MinimumMaintained {
		score += 15
	}
	switch z := b.Balance.ZeroBalanceDays; {
	case z == 0:
		score += 10
	case z < 5:
		score += 7
	case z < 10:
		score += 4
	}

	switch r := b.Patterns.DigitalRatio; {
	case r > 70:
		score += 10
	case r > 40:
		score += 7
	default:
		score += 4
	}
	if b.Patterns.International > 0 {
		score += 5
	}
	if b.Patterns.AveragePerMonth > 10 {
		score += 5
	}

	score += float64(b.Discipline.Score) * 0.3
	score -= float64(10 * b.OutwardChequeReturns)
	score -= float64(5 * b.InwardChequeReturns)
	if b.Patterns.OverdraftUsage > 5 {
		score -= 5
	}
	return int(math.Round(math.Max(0, math.Min(100, score))))
}

func rating(score int) string {
	switch {
	case score >= 80:
		return RatingExcellent
	case score >= 65:
		return RatingGood
	case score >= 50:
		return RatingAverage
	case score >= 30:
		return RatingPoor
	default:
		return RatingVeryPoor
	}
}

func (b *BankingBehaviorScore) insights() {
	b.Strengths, b.Weaknesses = []string{}, []string{}

	if b.Vintage.Status == VintageMature || b.Vintage.Status == VintageLegacy {
		b.Strengths = append(b.Strengths, fmt.Sprintf("Long banking relationship (%d months)", b.Vintage.AgeMonths))
	}
	if b.Balance.MinimumMaintained {
		b.Strengths = append(b.Strengths, "Consistent minimum balance maintenance")
	}
	if b.Patterns.DigitalRatio > 70 {
		b.Strengths = append(b.Strengths, "High digital payment adoption")
	}
	if b.Discipline.SIPInvestments {
		b.Strengths = append(b.Strengths, "Regular investment discipline (SIP)")
	}
	if b.Discipline.InsurancePremiums {
		b.Strengths = append(b.Strengths, "Insurance coverage maintained")
	}
	if b.OutwardChequeReturns == 0 {
		b.Strengths = append(b.Strengths, "No cheque bounces")
	}

	if !b.Vintage.MeetsMinimumAge {
		b.Weaknesses = append(b.Weaknesses, fmt.Sprintf("Account too new (%d months, need %d+)", b.Vintage.AgeMonths, b.Vintage.MinimumRequired))
	}
	if b.Balance.ZeroBalanceDays > 10 {
		b.Weaknesses = append(b.Weaknesses, fmt.Sprintf("Frequent zero balance days (%d)", b.Balance.ZeroBalanceDays))
	}
	if !b.Balance.MinimumMaintained {
		b.Weaknesses = append(b.Weaknesses, "Balance frequently below the required minimum")
	}
	if n := b.OutwardChequeReturns; n > 0 {
		b.Weaknesses = append(b.Weaknesses, fmt.Sprintf("%d cheque bounce(s)", n))
	}
	if b.Patterns.DigitalRatio < 30 {
		b.Weaknesses = append(b.Weaknesses, "Low digital payment usage; high cash dependency")
	}
	if !b.Discipline.SIPInvestments && !b.Discipline.RegularSavings {
		b.Weaknesses = append(b.Weaknesses, "No regular savings or investment discipline")
	}

	switch b.Rating {
	case RatingExcellent:
		b.Recommendations = []string{"Strong banking behavior; suitable for premium loan products"}
	case RatingGood:
		b.Recommendations = []string{"Good banking behavior; eligible for standard loan products"}
	case RatingAverage:
		b.Recommendations = []string{"Average profile; may require additional security or a co-applicant"}
	default:
		b.Recommendations = []string{"Weak banking behavior; high-risk profile for lending"}
	}
	if n := len(b.Weaknesses); n > 0 {
		b.Recommendations = append(b.Recommendations, fmt.Sprintf("Address %d key weakness(es) to improve the profile", n))
	}
}
