package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/repositories"
)

// UserRepository implements repositories.UserRepository over a Store
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a new in-memory user repository
func NewUserRepository(store *Store) repositories.UserRepository {
	return &UserRepository{store: store}
}

// Create inserts a user, rejecting duplicate emails and usernames
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, id := range r.store.userOrder {
		existing := r.store.users[id]
		if strings.EqualFold(existing.Email, user.Email) || existing.Username == user.Username {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("user '%s' already exists", user.Email),
				ResourceType: "user",
				ResourceID:   existing.ID,
			}
		}
	}

	r.store.users[user.ID] = newUserRecord(user)
	r.store.userOrder = append(r.store.userOrder, user.ID)
	r.store.markDirty()
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	user := rec.toModel()
	return &user, nil
}

// GetByEmail retrieves a user by email (case-insensitive)
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, id := range r.store.userOrder {
		if rec := r.store.users[id]; strings.EqualFold(rec.Email, email) {
			user := rec.toModel()
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

// List returns every user ordered by username
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	return r.filter(func(models.Role) bool { return true }), nil
}

// ListByRoles returns users whose role is one of roles
func (r *UserRepository) ListByRoles(ctx context.Context, roles ...models.Role) ([]models.User, error) {
	return r.filter(func(role models.Role) bool {
		for _, want := range roles {
			if role == want {
				return true
			}
		}
		return false
	}), nil
}

func (r *UserRepository) filter(keep func(models.Role) bool) []models.User {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]models.User, 0, len(r.store.userOrder))
	for _, id := range r.store.userOrder {
		if rec := r.store.users[id]; keep(rec.Role) {
			users = append(users, rec.toModel())
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}
