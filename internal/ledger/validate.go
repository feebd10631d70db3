package ledger

import (
	"fmt"
	"strings"

	"github.com/bitmaura/finscore/internal/model"
)

// Rules enforced by Validate.
const (
	RuleOneSide     = "one-side"
	RuleNonNegative = "non-negative"
	RuleDescription = "description"
)

// ValidationError describes a single rule violation on one row.
type ValidationError struct {
	Rule        string
	Index       int
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [row %d]: %s", e.Rule, e.Index, e.Description)
}

// Validate checks every transaction against the ledger rules.
func Validate(txns []model.Transaction) []ValidationError {
	var errs []ValidationError
	for i, t := range txns {
		errs = append(errs, validateOne(i, t)...)
	}
	return errs
}

func validateOne(i int, t model.Transaction) []ValidationError {
	var errs []ValidationError

	if t.Debit.IsPositive() && t.Credit.IsPositive() {
		errs = append(errs, ValidationError{
			Rule:        RuleOneSide,
			Index:       i,
			Description: fmt.Sprintf("both debit (%s) and credit (%s) are set", t.Debit.StringFixed(2), t.Credit.StringFixed(2)),
		})
	}

	if t.Debit.IsNegative() || t.Credit.IsNegative() {
		errs = append(errs, ValidationError{
			Rule:        RuleNonNegative,
			Index:       i,
			Description: fmt.Sprintf("negative amount (debit %s, credit %s)", t.Debit, t.Credit),
		})
	}

	if strings.TrimSpace(t.Description) == "" {
		errs = append(errs, ValidationError{
			Rule:        RuleDescription,
			Index:       i,
			Description: "empty description",
		})
	}
	return errs
}

// Clean returns the transactions that pass Validate along with the errors for
// the ones that were dropped.
func Clean(txns []model.Transaction) ([]model.Transaction, []ValidationError) {
	var kept []model.Transaction
	var dropped []ValidationError
	for i, t := range txns {
		if errs := validateOne(i, t); len(errs) > 0 {
			dropped = append(dropped, errs...)
			continue
		}
		kept = append(kept, t)
	}
	return kept, dropped
}
