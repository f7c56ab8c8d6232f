// Package ledger turns a group's expense and settlement records into a
// canonical set of pairwise debts and computes minimal settlement plans.
//
// The package is computationally pure: no I/O, no shared state. Every call
// operates on an immutable snapshot of one group's records, so groups can be
// processed concurrently without coordination.
package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nmehra/tripsplit/internal/models"
)

const (
	// amountScale is the number of decimal places amounts carry at emission.
	amountScale = 4

	// presentationScale is the number of decimal places shown to callers.
	presentationScale = 2
)

// tolerance absorbs split rounding (e.g., an odd cent amount divided three
// ways). Comparisons against zero and against target sums use it.
var tolerance = decimal.NewFromFloat(0.01)

// hundred is the percentage divisor.
var hundred = decimal.NewFromInt(100)

// netMatrix accumulates signed pairwise debts: net[from][to] is how much from
// owes to before netting. Entries are created lazily, which also defends
// against expenses referencing members outside the group snapshot.
type netMatrix map[string]map[string]decimal.Decimal

func (m netMatrix) add(from, to string, amt decimal.Decimal) {
	if from == to {
		return // self-loops are never materialized
	}
	row, ok := m[from]
	if !ok {
		row = make(map[string]decimal.Decimal)
		m[from] = row
	}
	row[to] = row[to].Add(amt)
}

func (m netMatrix) at(from, to string) decimal.Decimal {
	return m[from][to]
}

// ComputeBalances converts a group's members, expenses and settlements into
// the canonical nonzero Balance set: for every pair of members at most one
// direction is emitted, amounts are positive and rounded to four decimal
// places, and settled settlements have already been netted against the debts
// they reduce.
//
// Expenses are assumed to have passed ValidateSplit when they were accepted;
// the aggregation pass itself is total over accepted input. The only error
// returned is an internal invariant violation, which indicates a bug in the
// canonicalization pass rather than bad caller input.
func ComputeBalances(members []string, expenses []*models.Expense, settlements []*models.Settlement) ([]models.Balance, error) {
	net := make(netMatrix)

	for _, e := range expenses {
		for member, share := range expenseShares(e) {
			net.add(member, e.PaidBy, share)
		}
	}

	for _, s := range settlements {
		if s.Status != models.SettlementSettled {
			continue
		}
		// The payment has already flowed, reducing what from owes to.
		net.add(s.From, s.To, s.Amount.Neg())
	}

	balances := canonicalize(net)
	if err := verifyCanonical(balances); err != nil {
		return nil, err
	}
	return balances, nil
}

// expenseShares computes each split member's owed share per the expense's
// split rule. The payer's own share is included; callers skip it via the
// self-loop guard in netMatrix.add.
func expenseShares(e *models.Expense) map[string]decimal.Decimal {
	shares := make(map[string]decimal.Decimal, len(e.SplitBetween))

	switch e.Split.Type {
	case models.SplitEqual:
		if len(e.SplitBetween) == 0 {
			return shares
		}
		per := e.Amount.Div(decimal.NewFromInt(int64(len(e.SplitBetween))))
		for _, member := range e.SplitBetween {
			shares[member] = per
		}
	case models.SplitPercentage:
		for _, member := range e.SplitBetween {
			shares[member] = e.Amount.Mul(e.Split.Percentages[member]).Div(hundred)
		}
	case models.SplitExactAmounts:
		for _, member := range e.SplitBetween {
			shares[member] = e.Split.Amounts[member]
		}
	}

	return shares
}

// canonicalize nets opposing flows: for every unordered pair {A,B} it emits a
// single direction when the difference exceeds the rounding tolerance. Output
// is sorted by debtor, then creditor, so results are deterministic.
func canonicalize(net netMatrix) []models.Balance {
	memberSet := make(map[string]struct{})
	for from, row := range net {
		memberSet[from] = struct{}{}
		for to := range row {
			memberSet[to] = struct{}{}
		}
	}
	ids := make([]string, 0, len(memberSet))
	for id := range memberSet {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var balances []models.Balance
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			delta := net.at(a, b).Sub(net.at(b, a))
			switch {
			case delta.GreaterThan(tolerance):
				balances = append(balances, models.Balance{From: a, To: b, Amount: delta.Round(amountScale)})
			case delta.Neg().GreaterThan(tolerance):
				balances = append(balances, models.Balance{From: b, To: a, Amount: delta.Neg().Round(amountScale)})
			}
		}
	}
	return balances
}

// verifyCanonical asserts the single-direction and positive-amount invariants.
// A violation means the aggregation pass is buggy; the computation aborts
// rather than returning a silently wrong ledger.
func verifyCanonical(balances []models.Balance) error {
	seen := make(map[[2]string]struct{}, len(balances))
	for _, b := range balances {
		if !b.Amount.IsPositive() {
			return fmt.Errorf("ledger: non-positive balance %s emitted for %s -> %s", b.Amount, b.From, b.To)
		}
		if _, ok := seen[[2]string{b.To, b.From}]; ok {
			return fmt.Errorf("ledger: both directions emitted for pair %s/%s", b.From, b.To)
		}
		seen[[2]string{b.From, b.To}] = struct{}{}
	}
	return nil
}

// Present rounds an amount to the two decimal places used at presentation time.
func Present(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(presentationScale)
}
