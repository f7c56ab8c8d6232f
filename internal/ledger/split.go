package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/nmehra/tripsplit/internal/apperr"
	"github.com/nmehra/tripsplit/internal/models"
)

// ValidateSplit checks an expense's split details before it is accepted into
// the ledger: percentages must sum to 100 and exact amounts to the expense
// total (both within the rounding tolerance), and the details must cover
// exactly the members in SplitBetween. The returned errors are
// apperr.ValidationError values surfaced to the caller.
func ValidateSplit(e *models.Expense) error {
	if e.Amount.IsNegative() {
		return apperr.Validationf("amount must not be negative")
	}
	if len(e.SplitBetween) == 0 {
		return apperr.Validationf("split_between must have at least one member")
	}
	if !e.Split.Type.Valid() {
		return apperr.Validationf("invalid split type %q", e.Split.Type)
	}

	switch e.Split.Type {
	case models.SplitEqual:
		return nil

	case models.SplitPercentage:
		if err := coversMembers(e.SplitBetween, e.Split.Percentages, "percentage"); err != nil {
			return err
		}
		total := decimal.Zero
		for member, pct := range e.Split.Percentages {
			if pct.IsNegative() || pct.GreaterThan(hundred) {
				return apperr.Validationf("percentage for %s must be between 0 and 100", member)
			}
			total = total.Add(pct)
		}
		if total.Sub(hundred).Abs().GreaterThan(tolerance) {
			return apperr.Validationf("percentages must sum to 100, got %s", total)
		}

	case models.SplitExactAmounts:
		if err := coversMembers(e.SplitBetween, e.Split.Amounts, "amount"); err != nil {
			return err
		}
		total := decimal.Zero
		for member, amt := range e.Split.Amounts {
			if amt.IsNegative() {
				return apperr.Validationf("amount for %s must not be negative", member)
			}
			total = total.Add(amt)
		}
		if total.Sub(e.Amount).Abs().GreaterThan(tolerance) {
			return apperr.Validationf("exact amounts must sum to total expense amount, got %s of %s", total, e.Amount)
		}
	}

	return nil
}

// coversMembers requires the split details to name exactly the members being
// split between: no member without a share, no share for an outsider.
func coversMembers(members []string, details map[string]decimal.Decimal, kind string) error {
	if len(details) != len(members) {
		return apperr.Validationf("split details must cover exactly the split members")
	}
	for _, member := range members {
		if _, ok := details[member]; !ok {
			return apperr.Validationf("missing %s for split member %s", kind, member)
		}
	}
	return nil
}
