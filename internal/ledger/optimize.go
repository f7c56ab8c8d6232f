package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nmehra/tripsplit/internal/models"
)

// positionEpsilon is the threshold below which a remaining net position counts
// as settled and its holder drops out of the matching loop.
var positionEpsilon = decimal.NewFromFloat(0.0001)

// party is a member with a remaining positive amount to pay or collect.
type party struct {
	id        string
	remaining decimal.Decimal
}

// Optimize produces a settlement plan with as few transactions as possible
// using greedy cash-flow minimization: reduce the balances to one net position
// per member, then repeatedly settle the largest remaining creditor against
// the largest remaining debtor. Ties break on member ID ascending, so the plan
// is deterministic for a given balance set.
//
// The heuristic is not guaranteed globally optimal for every debt topology,
// but it never emits more transactions than settling each pairwise balance
// directly, which is the bound callers rely on to report savings.
//
// An empty balance list yields an empty plan: the group is already settled.
func Optimize(balances []models.Balance) []models.Transaction {
	positions := make(map[string]decimal.Decimal)
	for _, b := range balances {
		positions[b.From] = positions[b.From].Sub(b.Amount)
		positions[b.To] = positions[b.To].Add(b.Amount)
	}

	var creditors, debtors []party
	for id, pos := range positions {
		switch {
		case pos.GreaterThan(positionEpsilon):
			creditors = append(creditors, party{id: id, remaining: pos})
		case pos.Neg().GreaterThan(positionEpsilon):
			debtors = append(debtors, party{id: id, remaining: pos.Neg()})
		}
	}

	var plan []models.Transaction
	for len(creditors) > 0 && len(debtors) > 0 {
		ci := largest(creditors)
		di := largest(debtors)

		amount := decimal.Min(creditors[ci].remaining, debtors[di].remaining)
		plan = append(plan, models.Transaction{
			From:   debtors[di].id,
			To:     creditors[ci].id,
			Amount: amount.Round(amountScale),
		})

		creditors[ci].remaining = creditors[ci].remaining.Sub(amount)
		debtors[di].remaining = debtors[di].remaining.Sub(amount)
		creditors = dropSettled(creditors, ci)
		debtors = dropSettled(debtors, di)
	}

	return plan
}

// largest returns the index of the party with the biggest remaining amount,
// breaking ties by member ID ascending.
func largest(parties []party) int {
	best := 0
	for i := 1; i < len(parties); i++ {
		switch parties[i].remaining.Cmp(parties[best].remaining) {
		case 1:
			best = i
		case 0:
			if parties[i].id < parties[best].id {
				best = i
			}
		}
	}
	return best
}

// dropSettled removes parties[i] when its remainder rounds to zero,
// preserving order.
func dropSettled(parties []party, i int) []party {
	if parties[i].remaining.GreaterThan(positionEpsilon) {
		return parties
	}
	return append(parties[:i], parties[i+1:]...)
}

// SortBalances orders balances by debtor then creditor. The ledger already
// emits them in this order; the helper exists for callers that merge or
// reconstruct balance lists.
func SortBalances(balances []models.Balance) {
	sort.Slice(balances, func(i, j int) bool {
		if balances[i].From != balances[j].From {
			return balances[i].From < balances[j].From
		}
		return balances[i].To < balances[j].To
	})
}
