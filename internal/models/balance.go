package models

import "github.com/shopspring/decimal"

// Balance states that From owes To exactly Amount. Balances are derived by the
// ledger from a group's expenses and settlements; for any pair of members at
// most one direction is ever emitted, and the amount is always positive.
type Balance struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// Transaction is one proposed payment in an optimized settlement plan.
type Transaction struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// SettlementPlan is the result of optimizing a group's balances: the proposed
// transactions plus the transaction counts the caller reports as savings.
type SettlementPlan struct {
	Suggestions []Transaction

	// OriginalTransactions is the number of pairwise balances that would need
	// settling directly; OptimizedTransactions is len(Suggestions).
	OriginalTransactions  int
	OptimizedTransactions int
	Savings               int

	// Message is set when the group is already settled and no plan is needed.
	Message string
}
