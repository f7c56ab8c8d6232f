package service

import (
	"context"
	"log/slog"

	"github.com/nmehra/tripsplit/internal/apperr"
	"github.com/nmehra/tripsplit/internal/models"
	"github.com/nmehra/tripsplit/internal/storage"
)

// UserService manages user records and the referential checks other services
// rely on before an ID reaches the ledger.
type UserService struct {
	store storage.Store
}

// NewUserService creates a new UserService with the given storage backend.
func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// CreateUser registers a new user.
func (s *UserService) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	if name == "" {
		return nil, apperr.Validationf("name is required")
	}
	if email == "" {
		return nil, apperr.Validationf("email is required")
	}

	user := &models.User{Name: name, Email: email}
	if err := s.store.CreateUser(ctx, user); err != nil {
		slog.Error("CreateUser failed", "error", err)
		return nil, err
	}

	slog.Info("User created", "user_id", user.ID)
	return user, nil
}

// ListUsers retrieves all users.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.store.ListUsers(ctx)
}

// ValidateUsersExist errors with ValidationError when any of the IDs does not
// name a registered user.
func (s *UserService) ValidateUsersExist(ctx context.Context, userIDs []string) error {
	users, err := s.store.ListUsersByID(ctx, userIDs)
	if err != nil {
		return err
	}

	found := make(map[string]bool, len(users))
	for _, u := range users {
		found[u.ID] = true
	}
	for _, id := range userIDs {
		if !found[id] {
			return apperr.Validationf("user %s does not exist", id)
		}
	}
	return nil
}
