// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/nmehra/tripsplit/internal/models"
)

// Store defines the interface for Tripsplit's persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer. The ledger itself never touches a Store;
// services load snapshots and hand them to the ledger.
type Store interface {
	// CreateUser persists a new user. The user's ID and CreatedAt are
	// populated by the store when unset.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// ListUsers retrieves all users ordered by creation time.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// ListUsersByID retrieves the users with the given IDs. Missing IDs are
	// simply absent from the result; callers decide whether that is an error.
	ListUsersByID(ctx context.Context, userIDs []string) ([]*models.User, error)

	// CreateGroup persists a new group with its member list.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID, including its members.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// CreateExpense persists a new expense with its split details.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by group and expense ID.
	GetExpense(ctx context.Context, groupID, expenseID string) (*models.Expense, error)

	// UpdateExpense replaces an existing expense and its split details.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense from a group.
	DeleteExpense(ctx context.Context, groupID, expenseID string) error

	// ListExpenses retrieves all expenses for a group.
	ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)

	// CreateSettlement appends a new settlement record. Settlements are
	// immutable; there is no update operation.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlements retrieves a group's settlements with the given status.
	ListSettlements(ctx context.Context, groupID string, status models.SettlementStatus) ([]*models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}
