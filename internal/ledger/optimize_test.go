package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nmehra/tripsplit/internal/models"
)

func TestOptimize(t *testing.T) {
	tests := []struct {
		name     string
		balances []models.Balance
		want     []models.Transaction
	}{
		{
			name:     "empty input yields empty plan",
			balances: []models.Balance{},
			want:     nil,
		},
		{
			name: "single balance passes through",
			balances: []models.Balance{
				{From: "B", To: "A", Amount: dec("50")},
			},
			want: []models.Transaction{
				{From: "B", To: "A", Amount: dec("50")},
			},
		},
		{
			name: "chain collapses to one transfer",
			balances: []models.Balance{
				{From: "A", To: "B", Amount: dec("50")},
				{From: "B", To: "C", Amount: dec("50")},
			},
			want: []models.Transaction{
				{From: "A", To: "C", Amount: dec("50")},
			},
		},
		{
			name: "two debtors one creditor",
			balances: []models.Balance{
				{From: "B", To: "A", Amount: dec("100")},
				{From: "C", To: "A", Amount: dec("40")},
			},
			want: []models.Transaction{
				{From: "B", To: "A", Amount: dec("100")},
				{From: "C", To: "A", Amount: dec("40")},
			},
		},
		{
			name: "largest creditor matched against largest debtor first",
			balances: []models.Balance{
				{From: "C", To: "A", Amount: dec("70")},
				{From: "C", To: "B", Amount: dec("30")},
				{From: "D", To: "A", Amount: dec("30")},
			},
			// Positions: A +100, B +30, C -100, D -30.
			want: []models.Transaction{
				{From: "C", To: "A", Amount: dec("100")},
				{From: "D", To: "B", Amount: dec("30")},
			},
		},
		{
			name: "ties break on member id ascending",
			balances: []models.Balance{
				{From: "C", To: "A", Amount: dec("50")},
				{From: "D", To: "B", Amount: dec("50")},
			},
			want: []models.Transaction{
				{From: "C", To: "A", Amount: dec("50")},
				{From: "D", To: "B", Amount: dec("50")},
			},
		},
		{
			name: "residual below epsilon is dropped",
			balances: []models.Balance{
				{From: "B", To: "A", Amount: dec("50.00004")},
			},
			want: []models.Transaction{
				{From: "B", To: "A", Amount: dec("50")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Optimize(tt.balances)
			if len(got) != len(tt.want) {
				t.Fatalf("Optimize() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i].From != tt.want[i].From || got[i].To != tt.want[i].To || !got[i].Amount.Equal(tt.want[i].Amount) {
					t.Errorf("transaction[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// The plan must never require more transfers than settling every pairwise
// balance directly, and must conserve every member's net position.
func TestOptimizeBoundsAndConservation(t *testing.T) {
	balances := []models.Balance{
		{From: "B", To: "A", Amount: dec("33.3333")},
		{From: "C", To: "A", Amount: dec("12.5")},
		{From: "C", To: "B", Amount: dec("20")},
		{From: "D", To: "A", Amount: dec("7.25")},
		{From: "D", To: "C", Amount: dec("14.1")},
	}

	plan := Optimize(balances)
	if len(plan) > len(balances) {
		t.Fatalf("plan has %d transactions, more than the %d input balances", len(plan), len(balances))
	}

	before := make(map[string]decimal.Decimal)
	for _, b := range balances {
		before[b.From] = before[b.From].Sub(b.Amount)
		before[b.To] = before[b.To].Add(b.Amount)
	}
	after := make(map[string]decimal.Decimal)
	for _, tx := range plan {
		after[tx.From] = after[tx.From].Sub(tx.Amount)
		after[tx.To] = after[tx.To].Add(tx.Amount)
	}

	for id, want := range before {
		if got := after[id]; want.Sub(got).Abs().GreaterThan(dec("0.001")) {
			t.Errorf("net position of %s changed: before %s, after %s", id, want, got)
		}
	}
}
