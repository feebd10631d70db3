// Package categorize assigns each transaction a category from an ordered
// keyword table.
package categorize

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/config"
	"github.com/bitmaura/finscore/internal/keywords"
	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/model"
)

const (
	// fullScore is the keyword score that maps to confidence 1.
	fullScore = 5
	// minConfidence is the threshold below which a transaction stays uncategorized.
	minConfidence = 0.3
)

type rule struct {
	name    string
	matcher *keywords.Matcher
}

// Engine categorizes transactions. It is read-only after New.
type Engine struct {
	rules []rule
}

// New compiles the category table. Table order breaks score ties.
func New(rules []config.CategoryRule) *Engine {
	e := &Engine{rules: make([]rule, 0, len(rules))}
	for _, r := range rules {
		e.rules = append(e.rules, rule{name: r.Name, matcher: keywords.New(r.Keywords)})
	}
	return e
}

// Categorize returns the best-scoring category for txn and its confidence.
func (e *Engine) Categorize(txn model.Transaction) (string, float64) {
	best, bestScore := "", 0
	for _, r := range e.rules {
		if s := r.matcher.Score(txn.Description); s > bestScore {
			best, bestScore = r.name, s
		}
	}
	confidence := float64(bestScore) / fullScore
	if confidence > 1 {
		confidence = 1
	}
	if best == "" || confidence < minConfidence {
		return model.Uncategorized, confidence
	}
	return best, confidence
}

// CategorizeAll returns a copy of txns with Category and Confidence set.
func (e *Engine) CategorizeAll(txns []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	for i, t := range txns {
		t.Category, t.Confidence = e.Categorize(t)
		out[i] = t
	}
	return out
}

// CategorySummary aggregates the transactions of one category.
type CategorySummary struct {
	Category    string          `json:"category"`
	Count       int             `json:"count"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Net         decimal.Decimal `json:"net"`
	Percentage  float64         `json:"percentage"` // share of the total absolute flow
}

// Summarize groups categorized transactions. The result is ordered by
// descending absolute net, then by name.
func Summarize(txns []model.Transaction) []CategorySummary {
	byName := make(map[string]*CategorySummary)
	flow := decimal.Zero
	for _, t := range txns {
		name := t.Category
		if name == "" {
			name = model.Uncategorized
		}
		s, ok := byName[name]
		if !ok {
			s = &CategorySummary{Category: name}
			byName[name] = s
		}
		s.Count++
		s.TotalDebit = s.TotalDebit.Add(t.Debit)
		s.TotalCredit = s.TotalCredit.Add(t.Credit)
		flow = flow.Add(t.Debit).Add(t.Credit)
	}

	out := make([]CategorySummary, 0, len(byName))
	for _, s := range byName {
		s.Net = s.TotalCredit.Sub(s.TotalDebit)
		if flow.IsPositive() {
			s.Percentage = ledger.Float(s.TotalDebit.Add(s.TotalCredit).Div(flow).Mul(decimal.NewFromInt(100)).Round(2))
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := out[i].Net.Abs(), out[j].Net.Abs()
		if !ai.Equal(aj) {
			return ai.GreaterThan(aj)
		}
		return strings.Compare(out[i].Category, out[j].Category) < 0
	})
	return out
}
