package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/nmehra/tripsplit/internal/apperr"
	"github.com/nmehra/tripsplit/internal/events"
	"github.com/nmehra/tripsplit/internal/ledger"
	"github.com/nmehra/tripsplit/internal/models"
	"github.com/nmehra/tripsplit/internal/storage"
)

// settlementTolerance is how far a requested settlement amount may deviate
// from the outstanding balance it settles.
var settlementTolerance = decimal.NewFromFloat(0.01)

// LedgerService binds the ledger and optimizer to persistence-backed groups
// and enforces the settlement-write invariants.
type LedgerService struct {
	store  storage.Store
	events events.Publisher

	// mu guards groupLocks; each per-group mutex serializes RecordSettlement
	// for that group so concurrent settlements cannot both validate against a
	// stale balance and over-settle a debt.
	mu         sync.Mutex
	groupLocks map[string]*sync.Mutex
}

// NewLedgerService creates a new LedgerService with the given collaborators.
func NewLedgerService(store storage.Store, pub events.Publisher) *LedgerService {
	return &LedgerService{
		store:      store,
		events:     pub,
		groupLocks: make(map[string]*sync.Mutex),
	}
}

// GetBalances loads a frozen snapshot of the group's records and computes the
// canonical balance set. Returns NotFound when the group does not exist.
func (s *LedgerService) GetBalances(ctx context.Context, groupID string) ([]models.Balance, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlements(ctx, groupID, models.SettlementSettled)
	if err != nil {
		return nil, err
	}

	balances, err := ledger.ComputeBalances(group.Members, expenses, settlements)
	if err != nil {
		slog.Error("Balance computation failed", "group_id", groupID, "error", err)
		return nil, err
	}

	slog.Debug("Balances computed",
		"group_id", groupID,
		"expenses_count", len(expenses),
		"settlements_count", len(settlements),
		"balances_count", len(balances),
	)
	return balances, nil
}

// SuggestSettlement computes the optimized settlement plan for a group. When
// every balance is already settled it returns the sentinel message without
// invoking the optimizer.
func (s *LedgerService) SuggestSettlement(ctx context.Context, groupID string) (*models.SettlementPlan, error) {
	balances, err := s.GetBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if len(balances) == 0 {
		return &models.SettlementPlan{
			Suggestions: []models.Transaction{},
			Message:     "All balances are already settled!",
		}, nil
	}

	suggestions := ledger.Optimize(balances)
	plan := &models.SettlementPlan{
		Suggestions:           suggestions,
		OriginalTransactions:  len(balances),
		OptimizedTransactions: len(suggestions),
		Savings:               len(balances) - len(suggestions),
	}

	slog.Info("Settlement plan computed",
		"group_id", groupID,
		"original_transactions", plan.OriginalTransactions,
		"optimized_transactions", plan.OptimizedTransactions,
		"savings", plan.Savings,
	)
	return plan, nil
}

// RecordSettlement validates a settlement against the current balances and
// appends it. The requested (from, to) must match an outstanding balance
// exactly and the amount must match within the tolerance; otherwise the
// request is rejected with a ValidationError. Calls are serialized per group.
func (s *LedgerService) RecordSettlement(ctx context.Context, groupID, from, to string, amount decimal.Decimal) (*models.Settlement, error) {
	lock := s.lockFor(groupID)
	lock.Lock()
	defer lock.Unlock()

	balances, err := s.GetBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if !matchesOutstanding(balances, from, to, amount) {
		slog.Warn("Settlement rejected - no matching outstanding balance",
			"group_id", groupID, "from", from, "to", to, "amount", amount)
		return nil, apperr.Validationf("invalid settlement amount")
	}

	settlement := &models.Settlement{
		GroupID: groupID,
		From:    from,
		To:      to,
		Amount:  amount.Round(amountScale),
		Status:  models.SettlementSettled,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("RecordSettlement failed", "group_id", groupID, "error", err)
		return nil, err
	}

	slog.Info("Balance settled", "settlement_id", settlement.ID, "group_id", groupID)
	if err := s.events.PublishSettlementRecorded(ctx, groupID, settlement.ID, from, to, settlement.Amount); err != nil {
		slog.Warn("Failed to publish settlement event", "group_id", groupID, "error", err)
	}
	return settlement, nil
}

// matchesOutstanding reports whether a balance exists with the same direction
// and an amount within the settlement tolerance.
func matchesOutstanding(balances []models.Balance, from, to string, amount decimal.Decimal) bool {
	for _, b := range balances {
		if b.From == from && b.To == to && b.Amount.Sub(amount).Abs().LessThan(settlementTolerance) {
			return true
		}
	}
	return false
}

// lockFor returns the mutex serializing settlement writes for a group,
// creating it on first use.
func (s *LedgerService) lockFor(groupID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.groupLocks[groupID]
	if !ok {
		lock = &sync.Mutex{}
		s.groupLocks[groupID] = lock
	}
	return lock
}
