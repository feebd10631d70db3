package counterparty

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/ledger"
)

const (
	activeWindow  = 90 * 24 * time.Hour
	concentration = 5
)

// TopCounterparties ranks counterparties several ways.
type TopCounterparties struct {
	ByVolume    []Counterparty `json:"by_volume"`
	ByFrequency []Counterparty `json:"by_frequency"`
	Incoming    []Counterparty `json:"incoming"`
	Outgoing    []Counterparty `json:"outgoing"`
	HighRisk    []Counterparty `json:"high_risk"`
}

// Top returns the leading limit counterparties by volume, count, money
// received and money sent, plus every high-risk one.
func Top(cps []Counterparty, limit int) TopCounterparties {
	rank := func(less func(a, b Counterparty) bool) []Counterparty {
		out := append([]Counterparty(nil), cps...)
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
		if len(out) > limit {
			out = out[:limit]
		}
		return out
	}

	top := TopCounterparties{
		ByVolume:    rank(func(a, b Counterparty) bool { return a.Volume().GreaterThan(b.Volume()) }),
		ByFrequency: rank(func(a, b Counterparty) bool { return a.TransactionCount > b.TransactionCount }),
		Incoming:    rank(func(a, b Counterparty) bool { return a.Received.GreaterThan(b.Received) }),
		Outgoing:    rank(func(a, b Counterparty) bool { return a.Sent.GreaterThan(b.Sent) }),
		HighRisk:    []Counterparty{},
	}
	for _, c := range cps {
		if c.RiskLevel == RiskHigh {
			top.HighRisk = append(top.HighRisk, c)
		}
	}
	return top
}

// Concentration measures how much volume sits with the largest parties.
type Concentration struct {
	TopPercentage  float64 `json:"top_percentage"`
	Top5Percentage float64 `json:"top5_percentage"`
	Diversified    bool    `json:"diversified"`
}

// Summary describes the relationship book as a whole.
type Summary struct {
	Total               int            `json:"total"`
	Active              int            `json:"active"`
	Dormant             int            `json:"dormant"`
	ByRelationship      map[string]int `json:"by_relationship"`
	AverageDurationDays float64        `json:"average_duration_days"`
	Concentration       Concentration  `json:"concentration"`
}

// Insights reports relationship activity as of asOf. A relationship is active
// when its last transaction falls within 90 days of asOf. cps must be ordered
// by volume, as Analyze returns them.
func Insights(cps []Counterparty, asOf time.Time) Summary {
	in := Summary{Total: len(cps), ByRelationship: make(map[string]int)}
	if len(cps) == 0 {
		return in
	}

	cutoff := asOf.Add(-activeWindow)
	var days float64
	total, top5 := decimal.Zero, decimal.Zero
	for i, c := range cps {
		if !c.LastDate.Before(cutoff) {
			in.Active++
		}
		in.ByRelationship[c.Relationship]++
		days += c.LastDate.Sub(c.FirstDate).Hours() / 24
		total = total.Add(c.Volume())
		if i < concentration {
			top5 = top5.Add(c.Volume())
		}
	}
	in.Dormant = in.Total - in.Active
	in.AverageDurationDays = days / float64(len(cps))

	if total.IsPositive() {
		hundred := decimal.NewFromInt(100)
		in.Concentration.TopPercentage = ledger.Float(cps[0].Volume().Div(total).Mul(hundred).Round(2))
		in.Concentration.Top5Percentage = ledger.Float(top5.Div(total).Mul(hundred).Round(2))
	}
	in.Concentration.Diversified = in.Concentration.Top5Percentage < 50
	return in
}
