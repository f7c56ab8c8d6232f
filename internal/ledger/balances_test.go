package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nmehra/tripsplit/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func equalExpense(paidBy string, amount string, splitBetween ...string) *models.Expense {
	return &models.Expense{
		PaidBy:       paidBy,
		Amount:       dec(amount),
		SplitBetween: splitBetween,
		Split:        models.Split{Type: models.SplitEqual},
	}
}

func settled(from, to, amount string) *models.Settlement {
	return &models.Settlement{From: from, To: to, Amount: dec(amount), Status: models.SettlementSettled}
}

func TestComputeBalances(t *testing.T) {
	members := []string{"A", "B", "C"}

	tests := []struct {
		name        string
		expenses    []*models.Expense
		settlements []*models.Settlement
		want        []models.Balance
	}{
		{
			name:     "no records yields no balances",
			expenses: nil,
			want:     nil,
		},
		{
			name: "equal three-way split",
			expenses: []*models.Expense{
				equalExpense("A", "300", "A", "B", "C"),
			},
			want: []models.Balance{
				{From: "B", To: "A", Amount: dec("100")},
				{From: "C", To: "A", Amount: dec("100")},
			},
		},
		{
			name: "settlement reduces the debt it pays",
			expenses: []*models.Expense{
				equalExpense("A", "300", "A", "B", "C"),
			},
			settlements: []*models.Settlement{
				settled("B", "A", "100"),
			},
			want: []models.Balance{
				{From: "C", To: "A", Amount: dec("100")},
			},
		},
		{
			name: "pending settlement is ignored",
			expenses: []*models.Expense{
				equalExpense("A", "100", "A", "B"),
			},
			settlements: []*models.Settlement{
				{From: "B", To: "A", Amount: dec("50"), Status: models.SettlementPending},
			},
			want: []models.Balance{
				{From: "B", To: "A", Amount: dec("50")},
			},
		},
		{
			name: "opposing debts net to a single direction",
			expenses: []*models.Expense{
				equalExpense("A", "100", "A", "B"),
				equalExpense("B", "40", "A", "B"),
			},
			want: []models.Balance{
				{From: "B", To: "A", Amount: dec("30")},
			},
		},
		{
			name: "debts within tolerance of zero are dropped",
			expenses: []*models.Expense{
				equalExpense("A", "100", "A", "B"),
			},
			settlements: []*models.Settlement{
				settled("B", "A", "49.995"),
			},
			want: nil,
		},
		{
			name: "percentage split",
			expenses: []*models.Expense{
				{
					PaidBy:       "A",
					Amount:       dec("90"),
					SplitBetween: []string{"B", "C"},
					Split: models.Split{
						Type: models.SplitPercentage,
						Percentages: map[string]decimal.Decimal{
							"B": dec("60"),
							"C": dec("40"),
						},
					},
				},
			},
			want: []models.Balance{
				{From: "B", To: "A", Amount: dec("54")},
				{From: "C", To: "A", Amount: dec("36")},
			},
		},
		{
			name: "exact amounts split",
			expenses: []*models.Expense{
				{
					PaidBy:       "C",
					Amount:       dec("75"),
					SplitBetween: []string{"A", "B"},
					Split: models.Split{
						Type: models.SplitExactAmounts,
						Amounts: map[string]decimal.Decimal{
							"A": dec("25"),
							"B": dec("50"),
						},
					},
				},
			},
			want: []models.Balance{
				{From: "A", To: "C", Amount: dec("25")},
				{From: "B", To: "C", Amount: dec("50")},
			},
		},
		{
			name: "payer share creates no self debt",
			expenses: []*models.Expense{
				equalExpense("A", "100", "A", "B"),
			},
			want: []models.Balance{
				{From: "B", To: "A", Amount: dec("50")},
			},
		},
		{
			name: "odd amount divided three ways stays within tolerance",
			expenses: []*models.Expense{
				equalExpense("A", "100", "A", "B", "C"),
			},
			want: []models.Balance{
				{From: "B", To: "A", Amount: dec("33.3333")},
				{From: "C", To: "A", Amount: dec("33.3333")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBalances(members, tt.expenses, tt.settlements)
			if err != nil {
				t.Fatalf("ComputeBalances() error = %v", err)
			}
			assertBalances(t, got, tt.want)
		})
	}
}

func TestComputeBalancesCanonicalInvariants(t *testing.T) {
	// A dense web of expenses; whatever the balances are, the canonical form
	// must hold: one direction per pair, positive amounts, deterministic order.
	expenses := []*models.Expense{
		equalExpense("A", "120", "A", "B", "C"),
		equalExpense("B", "75", "A", "B", "C"),
		equalExpense("C", "33.33", "A", "B"),
		equalExpense("B", "10", "C"),
	}

	got, err := ComputeBalances([]string{"A", "B", "C"}, expenses, nil)
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}

	seen := make(map[[2]string]bool)
	for _, b := range got {
		if !b.Amount.IsPositive() {
			t.Errorf("balance %s -> %s has non-positive amount %s", b.From, b.To, b.Amount)
		}
		if seen[[2]string{b.To, b.From}] {
			t.Errorf("both directions emitted for pair %s/%s", b.From, b.To)
		}
		seen[[2]string{b.From, b.To}] = true
	}

	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		if prev.From > cur.From || (prev.From == cur.From && prev.To > cur.To) {
			t.Errorf("balances not sorted: %v before %v", prev, cur)
		}
	}

	// Recomputing from the same snapshot gives the identical result.
	again, err := ComputeBalances([]string{"A", "B", "C"}, expenses, nil)
	if err != nil {
		t.Fatalf("ComputeBalances() second run error = %v", err)
	}
	assertBalances(t, again, got)
}

func TestComputeBalancesZeroSum(t *testing.T) {
	// Everyone pays once, everyone settles what the ledger says; the ledger
	// then reports nothing outstanding.
	expenses := []*models.Expense{
		equalExpense("A", "90", "A", "B", "C"),
		equalExpense("B", "60", "A", "B", "C"),
	}

	balances, err := ComputeBalances([]string{"A", "B", "C"}, expenses, nil)
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}
	if len(balances) == 0 {
		t.Fatal("expected outstanding balances before settling")
	}

	var settlements []*models.Settlement
	for _, b := range balances {
		settlements = append(settlements, settled(b.From, b.To, b.Amount.String()))
	}

	after, err := ComputeBalances([]string{"A", "B", "C"}, expenses, settlements)
	if err != nil {
		t.Fatalf("ComputeBalances() after settling error = %v", err)
	}
	if len(after) != 0 {
		t.Errorf("expected no balances after settling everything, got %v", after)
	}
}

func TestPresent(t *testing.T) {
	if got := Present(dec("33.3333")); !got.Equal(dec("33.33")) {
		t.Errorf("Present(33.3333) = %s, want 33.33", got)
	}
	if got := Present(dec("10.005")); !got.Equal(dec("10.01")) {
		t.Errorf("Present(10.005) = %s, want 10.01", got)
	}
}

func assertBalances(t *testing.T, got, want []models.Balance) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d balances %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i].From != want[i].From || got[i].To != want[i].To {
			t.Errorf("balance[%d] = %s -> %s, want %s -> %s", i, got[i].From, got[i].To, want[i].From, want[i].To)
			continue
		}
		if !got[i].Amount.Equal(want[i].Amount) {
			t.Errorf("balance[%d] %s -> %s amount = %s, want %s", i, got[i].From, got[i].To, got[i].Amount, want[i].Amount)
		}
	}
}
