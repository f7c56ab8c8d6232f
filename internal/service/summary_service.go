package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/nmehra/tripsplit/internal/assistant"
	"github.com/nmehra/tripsplit/internal/models"
	"github.com/nmehra/tripsplit/internal/storage"
)

// SummaryService aggregates a group's records and asks the assistant for a
// conversational summary. It reads the same balance computation the ledger
// exposes, so summaries never disagree with the ledger.
type SummaryService struct {
	store     storage.Store
	ledger    *LedgerService
	assistant assistant.Assistant
}

// NewSummaryService creates a new SummaryService with the given collaborators.
func NewSummaryService(store storage.Store, ledgerSvc *LedgerService, ai assistant.Assistant) *SummaryService {
	return &SummaryService{store: store, ledger: ledgerSvc, assistant: ai}
}

// SummaryResult is a generated summary with the aggregate it was built from.
type SummaryResult struct {
	Summary string
	Query   string
	Data    assistant.SummaryData
}

// SmartSummary answers a free-form query about a group's expenses.
func (s *SummaryService) SmartSummary(ctx context.Context, groupID, query string) (*SummaryResult, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListUsersByID(ctx, group.Members)
	if err != nil {
		return nil, err
	}
	balances, err := s.ledger.GetBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}

	data := aggregate(group, members, expenses, balances)
	summary := s.assistant.SmartSummary(ctx, query, data)

	slog.Info("Smart summary generated", "group_id", groupID, "query", query)
	if query == "" {
		query = "General summary"
	}
	return &SummaryResult{Summary: summary, Query: query, Data: data}, nil
}

// aggregate rolls the group snapshot up into the assistant's input, resolving
// user IDs to display names.
func aggregate(group *models.Group, members []*models.User, expenses []*models.Expense, balances []models.Balance) assistant.SummaryData {
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}
	displayName := func(id string) string {
		if name, ok := names[id]; ok {
			return name
		}
		return id
	}

	data := assistant.SummaryData{
		GroupName:          group.Name,
		TotalExpenses:      len(expenses),
		SpendingByPerson:   make(map[string]decimal.Decimal),
		SpendingByCategory: make(map[string]decimal.Decimal),
	}

	for _, e := range expenses {
		data.TotalAmount = data.TotalAmount.Add(e.Amount)

		split := make([]string, len(e.SplitBetween))
		for i, id := range e.SplitBetween {
			split[i] = displayName(id)
		}
		data.Expenses = append(data.Expenses, assistant.ExpenseLine{
			Description:  e.Description,
			Amount:       e.Amount,
			PaidBy:       displayName(e.PaidBy),
			SplitBetween: split,
			Category:     e.Category,
		})

		payer := displayName(e.PaidBy)
		data.SpendingByPerson[payer] = data.SpendingByPerson[payer].Add(e.Amount)
		data.SpendingByCategory[e.Category] = data.SpendingByCategory[e.Category].Add(e.Amount)
	}

	for _, b := range balances {
		data.Balances = append(data.Balances, assistant.BalanceLine{
			From:   displayName(b.From),
			To:     displayName(b.To),
			Amount: b.Amount,
		})
	}
	return data
}
