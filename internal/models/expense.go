package models

import "github.com/shopspring/decimal"

// SplitType selects how an expense divides among its split members.
type SplitType string

const (
	// SplitEqual divides the amount evenly across SplitBetween.
	SplitEqual SplitType = "equal"

	// SplitPercentage divides the amount by per-member percentages summing to 100.
	SplitPercentage SplitType = "percentage"

	// SplitExactAmounts assigns explicit per-member amounts summing to the total.
	SplitExactAmounts SplitType = "exact_amounts"
)

// Valid reports whether t is a known split type.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitPercentage, SplitExactAmounts:
		return true
	}
	return false
}

// Split is the tagged variant describing how an expense divides.
// Equal carries no payload; exactly one of the maps is set otherwise.
type Split struct {
	Type SplitType

	// Percentages maps user ID to percentage (0-100). Set only for SplitPercentage.
	Percentages map[string]decimal.Decimal

	// Amounts maps user ID to an exact share. Set only for SplitExactAmounts.
	Amounts map[string]decimal.Decimal
}

// Expense represents a cost paid by one member and split among others.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// PaidBy is the user ID that paid the full amount. The payer need not be in
	// SplitBetween; when it is, its own share contributes nothing to the debt graph.
	PaidBy string

	// Amount is the total expense amount (>= 0), kept at 4 decimal places.
	Amount decimal.Decimal

	// Description is the human-readable name of the expense (e.g., "Dinner").
	Description string

	// SplitBetween is the non-empty list of user IDs sharing this expense.
	SplitBetween []string

	// Split describes how the amount divides across SplitBetween.
	Split Split

	// Category is the AI-assigned expense category (e.g., "food", "travel").
	Category string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}
