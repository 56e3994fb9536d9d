package users

import (
	"context"

	"github.com/philipbrowne/messagely/internal/server/models"
)

// Repository is the credential/profile store consumed by the auth flow and
// the user read endpoints.
type Repository interface {
	// Create persists a new user. A username collision yields
	// common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) error

	// GetByUsername returns the stored user, including the password hash.
	// Absent users yield common.ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdateLastLogin stamps last_login_at with the current time.
	UpdateLastLogin(ctx context.Context, username string) error

	// All returns every registered user.
	All(ctx context.Context) ([]*models.User, error)
}
