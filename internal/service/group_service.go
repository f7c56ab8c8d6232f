package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/nmehra/tripsplit/internal/apperr"
	"github.com/nmehra/tripsplit/internal/assistant"
	"github.com/nmehra/tripsplit/internal/events"
	"github.com/nmehra/tripsplit/internal/ledger"
	"github.com/nmehra/tripsplit/internal/models"
	"github.com/nmehra/tripsplit/internal/storage"
)

// amountScale matches the ledger's internal precision: expense and settlement
// amounts are stored rounded to four decimal places.
const amountScale = 4

// GroupService manages groups and their expenses. Split validation happens
// here, when an expense is created or edited, so the ledger only ever sees
// accepted expenses.
type GroupService struct {
	store     storage.Store
	users     *UserService
	assistant assistant.Assistant
	events    events.Publisher
}

// NewGroupService creates a new GroupService with the given collaborators.
func NewGroupService(store storage.Store, users *UserService, ai assistant.Assistant, pub events.Publisher) *GroupService {
	return &GroupService{store: store, users: users, assistant: ai, events: pub}
}

// GroupDetail is a group with member records and expenses attached.
type GroupDetail struct {
	Group    *models.Group
	Members  []*models.User
	Expenses []ExpenseDetail
}

// ExpenseDetail is an expense with its payer's user record attached.
type ExpenseDetail struct {
	Expense    *models.Expense
	PaidByUser *models.User
}

// ExpenseInput carries the caller-supplied fields of a new or updated expense.
type ExpenseInput struct {
	PaidBy       string
	Amount       decimal.Decimal
	Description  string
	SplitBetween []string
	Split        models.Split
}

// CreateGroup creates a new group after checking every member exists.
// The first member is recorded as the creator.
func (s *GroupService) CreateGroup(ctx context.Context, name string, members []string) (*models.Group, error) {
	if name == "" {
		return nil, apperr.Validationf("group name is required")
	}
	if len(members) == 0 {
		return nil, apperr.Validationf("at least one member is required")
	}
	if err := s.users.ValidateUsersExist(ctx, members); err != nil {
		return nil, err
	}

	group := &models.Group{Name: name, Members: members, CreatedBy: members[0]}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "name", group.Name, "members_count", len(members))
	return group, nil
}

// GetGroup retrieves a group with member details and expenses.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*GroupDetail, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	members, err := s.store.ListUsersByID(ctx, group.Members)
	if err != nil {
		return nil, err
	}

	expenses, err := s.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return &GroupDetail{Group: group, Members: members, Expenses: expenses}, nil
}

// ListGroups retrieves all groups with member details.
func (s *GroupService) ListGroups(ctx context.Context) ([]*GroupDetail, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]*GroupDetail, len(groups))
	for i, group := range groups {
		members, err := s.store.ListUsersByID(ctx, group.Members)
		if err != nil {
			return nil, err
		}
		details[i] = &GroupDetail{Group: group, Members: members}
	}
	return details, nil
}

// ListExpenses retrieves a group's expenses with payer details attached.
func (s *GroupService) ListExpenses(ctx context.Context, groupID string) ([]ExpenseDetail, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}

	details := make([]ExpenseDetail, len(expenses))
	for i, expense := range expenses {
		detail := ExpenseDetail{Expense: expense}
		if user, err := s.store.GetUser(ctx, expense.PaidBy); err == nil {
			detail.PaidByUser = user
		}
		details[i] = detail
	}
	return details, nil
}

// AddExpense validates and persists a new expense, then categorizes it and
// publishes an expense.created event.
func (s *GroupService) AddExpense(ctx context.Context, groupID string, input ExpenseInput) (*models.Expense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.validateExpenseInput(ctx, group, input); err != nil {
		return nil, err
	}

	expense := s.buildExpense(ctx, groupID, input)
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "group_id", groupID, "error", err)
		return nil, err
	}

	slog.Info("Expense added", "expense_id", expense.ID, "group_id", groupID, "category", expense.Category)
	s.publishExpenseEvent(ctx, events.KeyExpenseCreated, groupID, expense.ID)
	return expense, nil
}

// UpdateExpense validates and replaces an existing expense.
func (s *GroupService) UpdateExpense(ctx context.Context, groupID, expenseID string, input ExpenseInput) (*models.Expense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetExpense(ctx, groupID, expenseID); err != nil {
		return nil, err
	}
	if err := s.validateExpenseInput(ctx, group, input); err != nil {
		return nil, err
	}

	expense := s.buildExpense(ctx, groupID, input)
	expense.ID = expenseID
	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expenseID, "group_id", groupID, "error", err)
		return nil, err
	}

	slog.Info("Expense updated", "expense_id", expenseID, "group_id", groupID)
	s.publishExpenseEvent(ctx, events.KeyExpenseUpdated, groupID, expenseID)
	return expense, nil
}

// DeleteExpense removes an expense from a group.
func (s *GroupService) DeleteExpense(ctx context.Context, groupID, expenseID string) error {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return err
	}
	if err := s.store.DeleteExpense(ctx, groupID, expenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expenseID, "group_id", groupID, "error", err)
		return err
	}

	slog.Info("Expense deleted", "expense_id", expenseID, "group_id", groupID)
	s.publishExpenseEvent(ctx, events.KeyExpenseDeleted, groupID, expenseID)
	return nil
}

// validateExpenseInput enforces the referential checks (payer and split
// members belong to the group and exist as users) and the split-sum rules.
func (s *GroupService) validateExpenseInput(ctx context.Context, group *models.Group, input ExpenseInput) error {
	if input.Description == "" {
		return apperr.Validationf("description is required")
	}
	if input.Amount.IsNegative() || input.Amount.IsZero() {
		return apperr.Validationf("amount must be greater than 0")
	}

	if _, err := s.store.GetUser(ctx, input.PaidBy); err != nil {
		return err
	}
	if !isMember(input.PaidBy, group.Members) {
		return apperr.Validationf("paid by user is not a member of this group")
	}
	if err := s.users.ValidateUsersExist(ctx, input.SplitBetween); err != nil {
		return err
	}
	for _, userID := range input.SplitBetween {
		if !isMember(userID, group.Members) {
			return apperr.Validationf("split user %s is not a member of this group", userID)
		}
	}

	return ledger.ValidateSplit(&models.Expense{
		Amount:       input.Amount,
		SplitBetween: input.SplitBetween,
		Split:        input.Split,
	})
}

func (s *GroupService) buildExpense(ctx context.Context, groupID string, input ExpenseInput) *models.Expense {
	return &models.Expense{
		GroupID:      groupID,
		PaidBy:       input.PaidBy,
		Amount:       input.Amount.Round(amountScale),
		Description:  input.Description,
		SplitBetween: input.SplitBetween,
		Split:        input.Split,
		Category:     s.assistant.CategorizeExpense(ctx, input.Description),
	}
}

// publishExpenseEvent sends the event best-effort; failures are logged only.
func (s *GroupService) publishExpenseEvent(ctx context.Context, key, groupID, expenseID string) {
	if err := s.events.PublishExpenseEvent(ctx, key, groupID, expenseID); err != nil {
		slog.Warn("Failed to publish expense event", "key", key, "group_id", groupID, "error", err)
	}
}

// isMember checks if the user is in the member list.
func isMember(userID string, members []string) bool {
	for _, m := range members {
		if m == userID {
			return true
		}
	}
	return false
}
