package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nmehra/tripsplit/internal/assistant"
	"github.com/nmehra/tripsplit/internal/events"
	"github.com/nmehra/tripsplit/internal/models"
	"github.com/nmehra/tripsplit/internal/storage"
	"github.com/nmehra/tripsplit/internal/storage/sqlite"
)

// testEnv wires the full service stack against a throwaway SQLite file, with
// events discarded and the assistant running on its local fallbacks.
type testEnv struct {
	store     storage.Store
	users     *UserService
	groups    *GroupService
	ledger    *LedgerService
	summaries *SummaryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "tripsplit-service-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ai := assistant.NewClient("", "", "")
	users := NewUserService(store)
	groups := NewGroupService(store, users, ai, events.Nop{})
	ledgerSvc := NewLedgerService(store, events.Nop{})
	summaries := NewSummaryService(store, ledgerSvc, ai)

	return &testEnv{
		store:     store,
		users:     users,
		groups:    groups,
		ledger:    ledgerSvc,
		summaries: summaries,
	}
}

func (e *testEnv) user(t *testing.T, name string) *models.User {
	t.Helper()
	user, err := e.users.CreateUser(context.Background(), name, name+"@example.com")
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return user
}

func (e *testEnv) group(t *testing.T, name string, members ...string) *models.Group {
	t.Helper()
	group, err := e.groups.CreateGroup(context.Background(), name, members)
	if err != nil {
		t.Fatalf("CreateGroup(%s) failed: %v", name, err)
	}
	return group
}

func (e *testEnv) equalExpense(t *testing.T, groupID, paidBy, amount, description string, splitBetween ...string) *models.Expense {
	t.Helper()
	expense, err := e.groups.AddExpense(context.Background(), groupID, ExpenseInput{
		PaidBy:       paidBy,
		Amount:       decimal.RequireFromString(amount),
		Description:  description,
		SplitBetween: splitBetween,
		Split:        models.Split{Type: models.SplitEqual},
	})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	return expense
}
