package models

import "github.com/shopspring/decimal"

// SettlementStatus is the lifecycle state of a settlement. Only settled
// settlements participate in balance netting.
type SettlementStatus string

const (
	SettlementSettled   SettlementStatus = "settled"
	SettlementPending   SettlementStatus = "pending"
	SettlementCancelled SettlementStatus = "cancelled"
)

// Settlement represents a payment between group members that reduces a debt.
// Settlements are immutable once recorded; corrections are made by adding
// offsetting settlements.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// From is the user who paid (debtor settling up).
	From string

	// To is the user who received payment (creditor being paid).
	To string

	// Amount is the payment amount (>= 0), kept at 4 decimal places.
	Amount decimal.Decimal

	// Status is the settlement lifecycle state.
	Status SettlementStatus

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}
