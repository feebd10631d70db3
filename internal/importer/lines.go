package importer

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/keywords"
	"github.com/bitmaura/finscore/internal/model"
)

const (
	// amountToken matches a statement amount with paise, e.g. "1,23,456.78".
	amountToken = `-?[\d,]*\d\.\d{2}`
	markerToken = `(?i:cr|dr)`
	// maxLineLen bounds the work done per line on hostile input.
	maxLineLen = 1000
)

var (
	debitHints    = keywords.New([]string{"debit", "withdrawal", "dr", "wdl"})
	openingRe     = regexp.MustCompile(`(?i)opening\s+balance|balance\s+b/?f|brought\s+forward`)
	closingRe     = regexp.MustCompile(`(?i)closing\s+balance|balance\s+c/?f|carried\s+forward`)
	lastAmountRe  = regexp.MustCompile(amountToken + `(?:\s*` + markerToken + `\.?)?`)
	amountCleaner = strings.NewReplacer(",", "", "₹", "", "Rs.", "", "Rs", "", "INR", "", "$", "", "£", "", "€", "", " ", "", "\u00a0", "")
)

// linePattern builds a statement row pattern: date, description, one or two
// amounts, then a running balance. Each amount may carry a Cr/Dr marker.
func linePattern(dateToken, descToken string, balanceRequired bool) *regexp.Regexp {
	amt := func(name string) string {
		return `(?P<` + name + `>` + amountToken + `)(?:\s*(?P<` + name + `_m>` + markerToken + `)\.?)?`
	}
	p := `^\s*(?P<date>` + dateToken + `)\s+(?P<desc>` + descToken + `)\s+` + amt("amt1") +
		`(?:\s+` + amt("amt2") + `)?`
	if balanceRequired {
		p += `\s+` + amt("bal")
	}
	return regexp.MustCompile(p + `\s*$`)
}

// row is one regex match, before debit/credit resolution.
type row struct {
	date    string
	desc    string
	amounts []string
	markers []string
	balance string
	balMark string
	hasBal  bool
}

func matchRow(re *regexp.Regexp, line string) (row, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return row{}, false
	}
	get := func(name string) string {
		if i := re.SubexpIndex(name); i >= 0 {
			return m[i]
		}
		return ""
	}
	r := row{
		date: get("date"),
		desc: strings.TrimSpace(get("desc")),
	}
	for _, name := range []string{"amt1", "amt2"} {
		if v := get(name); v != "" {
			r.amounts = append(r.amounts, v)
			r.markers = append(r.markers, strings.ToLower(get(name+"_m")))
		}
	}
	if v := get("bal"); v != "" {
		r.balance, r.balMark, r.hasBal = v, strings.ToLower(get("bal_m")), true
	}
	return r, true
}

// lineScanner turns matched rows into transactions, carrying the running
// balance between rows.
type lineScanner struct {
	patterns []*regexp.Regexp
	layouts  []string
	prev     *decimal.Decimal
}

func (s *lineScanner) scan(text string) []model.Transaction {
	var txns []model.Transaction
	for _, line := range strings.Split(text, "\n") {
		if len(line) > maxLineLen {
			continue
		}
		line = strings.TrimRight(line, "\r")
		if openingRe.MatchString(line) {
			if bal, ok := lastAmount(line); ok {
				s.prev = &bal
			}
			continue
		}
		if closingRe.MatchString(line) {
			continue
		}
		for _, re := range s.patterns {
			r, ok := matchRow(re, line)
			if !ok {
				continue
			}
			if txn, ok := s.build(r); ok {
				txns = append(txns, txn)
			}
			break
		}
	}
	return txns
}

func (s *lineScanner) build(r row) (model.Transaction, bool) {
	txn := model.Transaction{RawDate: r.date, Description: r.desc}
	if d, ok := parseDate(r.date, s.layouts); ok {
		txn.Date = d
	}

	var balance decimal.Decimal
	if r.hasBal {
		b, ok := parseAmount(r.balance)
		if !ok {
			return model.Transaction{}, false
		}
		if r.balMark == "dr" {
			b = b.Abs().Neg()
		}
		balance = b
	}

	switch len(r.amounts) {
	case 2:
		debit, ok1 := parseAmount(r.amounts[0])
		credit, ok2 := parseAmount(r.amounts[1])
		if !ok1 || !ok2 {
			return model.Transaction{}, false
		}
		txn.Debit, txn.Credit = debit.Abs(), credit.Abs()
	case 1:
		amt, ok := parseAmount(r.amounts[0])
		if !ok {
			return model.Transaction{}, false
		}
		marker := r.markers[0]
		if amt.IsNegative() {
			marker = "dr"
		}
		if classify(amt.Abs(), marker, r.hasBal, balance, s.prev, r.desc) == model.Debit {
			txn.Debit = amt.Abs()
		} else {
			txn.Credit = amt.Abs()
		}
	}

	if !r.hasBal {
		prev := decimal.Zero
		if s.prev != nil {
			prev = *s.prev
		}
		balance = prev.Add(txn.Credit).Sub(txn.Debit)
	}
	txn.Balance = balance
	s.prev = &balance
	return txn, true
}

// classify resolves the side of a single amount: explicit marker first, then
// the running-balance delta, then debit keyword hints; credit otherwise.
func classify(amt decimal.Decimal, marker string, hasBal bool, balance decimal.Decimal, prev *decimal.Decimal, desc string) model.TxnType {
	switch marker {
	case "dr":
		return model.Debit
	case "cr":
		return model.Credit
	}
	// A reconciling balance movement outranks the description hints below.
	if hasBal && prev != nil {
		tolerance := decimal.NewFromFloat(0.01)
		if prev.Add(amt).Sub(balance).Abs().LessThanOrEqual(tolerance) {
			return model.Credit
		}
		if prev.Sub(amt).Sub(balance).Abs().LessThanOrEqual(tolerance) {
			return model.Debit
		}
	}
	if desc != "" && debitHints.ContainsWord(desc) {
		return model.Debit
	}
	return model.Credit
}

// parseAmount parses a statement amount, dropping separators and currency
// symbols. "(1,234.00)" is negative.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = amountCleaner.Replace(s)
	if strings.HasSuffix(s, "-") {
		neg = true
		s = strings.TrimSuffix(s, "-")
	}
	if s == "" || s == "-" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if neg {
		d = d.Abs().Neg()
	}
	return d, true
}

// lastAmount returns the final amount on a line, signed by its Dr marker.
func lastAmount(line string) (decimal.Decimal, bool) {
	all := lastAmountRe.FindAllString(line, -1)
	if len(all) == 0 {
		return decimal.Zero, false
	}
	tok := all[len(all)-1]
	lower := strings.ToLower(tok)
	isDr := strings.HasSuffix(strings.TrimSuffix(lower, "."), "dr")
	tok = strings.TrimSpace(strings.TrimRight(tok, "CcRrDd. "))
	d, ok := parseAmount(tok)
	if ok && isDr {
		d = d.Abs().Neg()
	}
	return d, ok
}

func parseDate(s string, layouts []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
