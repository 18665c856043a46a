package repositories

import (
	"context"

	"reqgen/internal/domain/models"
)

// UserRepository defines data access operations for user accounts
type UserRepository interface {
	// Create inserts a user. Returns *domain.ConflictError if the email or username is taken
	Create(ctx context.Context, user *models.User) error

	// GetByID returns domain.ErrNotFound if the user does not exist
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail returns domain.ErrNotFound if no user has the email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// List returns every user ordered by username
	List(ctx context.Context) ([]models.User, error)

	// ListByRoles returns users whose role is one of roles
	ListByRoles(ctx context.Context, roles ...models.Role) ([]models.User, error)
}
