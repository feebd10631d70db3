package risk

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/model"
)

// CashflowMonth is one calendar month of flow.
type CashflowMonth struct {
	Month      string          `json:"month"` // YYYY-MM
	Credits    decimal.Decimal `json:"credits"`
	Debits     decimal.Decimal `json:"debits"`
	Net        decimal.Decimal `json:"net"`
	EndBalance decimal.Decimal `json:"end_balance"`
}

// Cashflow summarizes net flow month by month.
type Cashflow struct {
	Months         []CashflowMonth `json:"months"`
	NetCashflow    decimal.Decimal `json:"net_cashflow"`
	PositiveMonths int             `json:"positive_months"`
	NegativeMonths int             `json:"negative_months"`
	Volatility     float64         `json:"volatility"` // σ of monthly net
}

// ChequeReturn is a returned cheque or payment found in the ledger.
type ChequeReturn struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
	Party  string          `json:"party"`
}

// Return reasons.
const (
	ReasonInsufficientFunds = "Insufficient Funds"
	ReasonReferToDrawer     = "Refer to Drawer"
	ReasonPaymentStopped    = "Payment Stopped"
	ReasonUnknown           = "Unknown"
)

const unknownParty = "Unknown"

var partyRe = regexp.MustCompile(`(?i)\b(?:to|from)\s+([a-z][a-z ]*)`)

func cashflow(txns []model.Transaction) Cashflow {
	cf := Cashflow{Months: []CashflowMonth{}}
	byMonth := map[string]*CashflowMonth{}
	for _, t := range txns {
		key := t.MonthKey()
		if key == "" {
			continue
		}
		m, ok := byMonth[key]
		if !ok {
			m = &CashflowMonth{Month: key}
			byMonth[key] = m
		}
		m.Credits = m.Credits.Add(t.Credit)
		m.Debits = m.Debits.Add(t.Debit)
		m.EndBalance = t.Balance
	}
	for _, m := range byMonth {
		m.Net = m.Credits.Sub(m.Debits)
		cf.Months = append(cf.Months, *m)
	}
	sort.Slice(cf.Months, func(i, j int) bool { return cf.Months[i].Month < cf.Months[j].Month })

	if len(cf.Months) == 0 {
		return cf
	}
	nets := make([]float64, len(cf.Months))
	mean := 0.0
	for i, m := range cf.Months {
		cf.NetCashflow = cf.NetCashflow.Add(m.Net)
		switch m.Net.Sign() {
		case 1:
			cf.PositiveMonths++
		case -1:
			cf.NegativeMonths++
		}
		nets[i] = ledger.Float(m.Net)
		mean += nets[i]
	}
	mean /= float64(len(nets))
	variance := 0.0
	for _, n := range nets {
		variance += (n - mean) * (n - mean)
	}
	cf.Volatility = math.Round(math.Sqrt(variance/float64(len(nets)))*100) / 100
	return cf
}

func chequeReturn(t model.Transaction) ChequeReturn {
	cr := ChequeReturn{Date: t.Date, Amount: t.Amount(), Reason: ReasonUnknown, Party: unknownParty}
	lower := strings.ToLower(t.Description)
	switch {
	case strings.Contains(lower, "insufficient"):
		cr.Reason = ReasonInsufficientFunds
	case strings.Contains(lower, "refer"):
		cr.Reason = ReasonReferToDrawer
	case strings.Contains(lower, "stopped"):
		cr.Reason = ReasonPaymentStopped
	}
	if m := partyRe.FindStringSubmatch(t.Description); m != nil {
		cr.Party = strings.TrimSpace(m[1])
	}
	return cr
}
