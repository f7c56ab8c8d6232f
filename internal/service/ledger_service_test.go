package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nmehra/tripsplit/internal/apperr"
)

func TestGetBalances(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")
	group := env.group(t, "Goa Trip", alice.ID, bob.ID, carol.ID)

	t.Run("unknown group returns NotFound", func(t *testing.T) {
		_, err := env.ledger.GetBalances(ctx, "nonexistent-id")
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("GetBalances error = %v, want ErrNotFound", err)
		}
	})

	t.Run("empty group has no balances", func(t *testing.T) {
		balances, err := env.ledger.GetBalances(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetBalances failed: %v", err)
		}
		if len(balances) != 0 {
			t.Errorf("Expected no balances, got %v", balances)
		}
	})

	t.Run("equal split produces one debt per non-payer", func(t *testing.T) {
		env.equalExpense(t, group.ID, alice.ID, "300", "Villa booking", alice.ID, bob.ID, carol.ID)

		balances, err := env.ledger.GetBalances(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetBalances failed: %v", err)
		}
		if len(balances) != 2 {
			t.Fatalf("Expected 2 balances, got %v", balances)
		}
		for _, b := range balances {
			if b.To != alice.ID {
				t.Errorf("Balance creditor = %s, want %s", b.To, alice.ID)
			}
			if !b.Amount.Equal(decimal.RequireFromString("100")) {
				t.Errorf("Balance amount = %s, want 100", b.Amount)
			}
		}
	})

	t.Run("recorded settlement reduces the debt", func(t *testing.T) {
		if _, err := env.ledger.RecordSettlement(ctx, group.ID, bob.ID, alice.ID, decimal.RequireFromString("100")); err != nil {
			t.Fatalf("RecordSettlement failed: %v", err)
		}

		balances, err := env.ledger.GetBalances(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetBalances failed: %v", err)
		}
		if len(balances) != 1 {
			t.Fatalf("Expected 1 balance after settling, got %v", balances)
		}
		if balances[0].From != carol.ID || balances[0].To != alice.ID {
			t.Errorf("Remaining balance = %s -> %s, want %s -> %s", balances[0].From, balances[0].To, carol.ID, alice.ID)
		}
	})
}

func TestRecordSettlement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	group := env.group(t, "Weekend", alice.ID, bob.ID)
	env.equalExpense(t, group.ID, alice.ID, "100", "Fuel", alice.ID, bob.ID)

	t.Run("wrong direction rejected", func(t *testing.T) {
		_, err := env.ledger.RecordSettlement(ctx, group.ID, alice.ID, bob.ID, decimal.RequireFromString("50"))
		if !apperr.IsValidation(err) {
			t.Errorf("RecordSettlement error = %v, want ValidationError", err)
		}
	})

	t.Run("amount outside tolerance rejected", func(t *testing.T) {
		_, err := env.ledger.RecordSettlement(ctx, group.ID, bob.ID, alice.ID, decimal.RequireFromString("49.5"))
		if !apperr.IsValidation(err) {
			t.Errorf("RecordSettlement error = %v, want ValidationError", err)
		}
	})

	t.Run("amount within tolerance accepted", func(t *testing.T) {
		settlement, err := env.ledger.RecordSettlement(ctx, group.ID, bob.ID, alice.ID, decimal.RequireFromString("49.995"))
		if err != nil {
			t.Fatalf("RecordSettlement failed: %v", err)
		}
		if settlement.ID == "" {
			t.Error("Expected settlement ID to be generated")
		}

		balances, err := env.ledger.GetBalances(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetBalances failed: %v", err)
		}
		if len(balances) != 0 {
			t.Errorf("Expected no balances after settling, got %v", balances)
		}
	})

	t.Run("settling an already settled debt rejected", func(t *testing.T) {
		_, err := env.ledger.RecordSettlement(ctx, group.ID, bob.ID, alice.ID, decimal.RequireFromString("50"))
		if !apperr.IsValidation(err) {
			t.Errorf("RecordSettlement error = %v, want ValidationError", err)
		}
	})
}

// Concurrent settlements of the same debt must not over-settle: exactly one
// succeeds, the rest fail validation against the refreshed balance.
func TestRecordSettlementSerialized(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	group := env.group(t, "Race", alice.ID, bob.ID)
	env.equalExpense(t, group.ID, alice.ID, "100", "Tickets", alice.ID, bob.ID)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.ledger.RecordSettlement(ctx, group.ID, bob.ID, alice.ID, decimal.RequireFromString("50"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case apperr.IsValidation(err):
			rejected++
		default:
			t.Errorf("Unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("Expected exactly 1 successful settlement, got %d", succeeded)
	}
	if rejected != attempts-1 {
		t.Errorf("Expected %d rejections, got %d", attempts-1, rejected)
	}
}

func TestSuggestSettlement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")
	group := env.group(t, "Chain", alice.ID, bob.ID, carol.ID)

	t.Run("settled group returns sentinel message", func(t *testing.T) {
		plan, err := env.ledger.SuggestSettlement(ctx, group.ID)
		if err != nil {
			t.Fatalf("SuggestSettlement failed: %v", err)
		}
		if plan.Message != "All balances are already settled!" {
			t.Errorf("Message = %q, want settled sentinel", plan.Message)
		}
		if len(plan.Suggestions) != 0 {
			t.Errorf("Expected no suggestions, got %v", plan.Suggestions)
		}
	})

	t.Run("chain collapses and savings are reported", func(t *testing.T) {
		// alice owes bob 50, bob owes carol 50; one transfer settles both.
		env.equalExpense(t, group.ID, bob.ID, "100", "Dinner", alice.ID, bob.ID)
		env.equalExpense(t, group.ID, carol.ID, "100", "Drinks", bob.ID, carol.ID)

		plan, err := env.ledger.SuggestSettlement(ctx, group.ID)
		if err != nil {
			t.Fatalf("SuggestSettlement failed: %v", err)
		}
		if plan.OriginalTransactions != 2 {
			t.Errorf("OriginalTransactions = %d, want 2", plan.OriginalTransactions)
		}
		if plan.OptimizedTransactions != 1 {
			t.Errorf("OptimizedTransactions = %d, want 1", plan.OptimizedTransactions)
		}
		if plan.Savings != 1 {
			t.Errorf("Savings = %d, want 1", plan.Savings)
		}
		if len(plan.Suggestions) != 1 {
			t.Fatalf("Expected 1 suggestion, got %v", plan.Suggestions)
		}
		s := plan.Suggestions[0]
		if s.From != alice.ID || s.To != carol.ID || !s.Amount.Equal(decimal.RequireFromString("50")) {
			t.Errorf("Suggestion = %s -> %s %s, want %s -> %s 50", s.From, s.To, s.Amount, alice.ID, carol.ID)
		}
	})
}
