// Package assistant is the natural-language collaborator: it categorizes
// expenses and turns ledger aggregates into conversational summaries.
//
// It sits strictly downstream of the ledger. Nothing here influences balance
// computation or settlement optimization; every call degrades to a
// deterministic local fallback when no API key is configured or the remote
// call fails.
package assistant

import (
	"context"

	"github.com/shopspring/decimal"
)

// Categories an expense can be filed under. The model is constrained to this
// list; anything else falls back to "other".
var Categories = []string{
	"food",
	"travel",
	"accommodation",
	"entertainment",
	"shopping",
	"transportation",
	"utilities",
	"healthcare",
	"education",
	"other",
}

// Assistant categorizes expenses and generates smart summaries.
type Assistant interface {
	// CategorizeExpense files a description under one of Categories.
	// It never fails: errors degrade to keyword-based categorization.
	CategorizeExpense(ctx context.Context, description string) string

	// SmartSummary answers a free-form query about a group's aggregated
	// expense data. It never fails: errors degrade to a templated report.
	SmartSummary(ctx context.Context, query string, data SummaryData) string
}

// ExpenseLine is one expense in the aggregate handed to the assistant, with
// user IDs already resolved to display names.
type ExpenseLine struct {
	Description  string
	Amount       decimal.Decimal
	PaidBy       string
	SplitBetween []string
	Category     string
}

// BalanceLine is one outstanding debt, with names resolved.
type BalanceLine struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// SummaryData is the aggregate a summary is generated from. It is computed by
// the service layer from the same balance computation the ledger exposes, so
// summaries can never disagree with the ledger.
type SummaryData struct {
	GroupName          string
	TotalExpenses      int
	TotalAmount        decimal.Decimal
	Expenses           []ExpenseLine
	SpendingByPerson   map[string]decimal.Decimal
	SpendingByCategory map[string]decimal.Decimal
	Balances           []BalanceLine
}
