package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/repositories"
)

// UserRepository implements repositories.UserRepository on gorm
type UserRepository struct {
	db     *gorm.DB
	table  string
	logger *slog.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(cfg *Config) repositories.UserRepository {
	return &UserRepository{db: cfg.DB, table: cfg.Tables.Users, logger: cfg.Logger}
}

func (r *UserRepository) q(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).Table(r.table)
}

// Create inserts a user. Emails are stored lowercased.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	row := newUserRow(u)
	row.Email = strings.ToLower(row.Email)

	if err := r.q(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("user '%s' already exists", u.Email),
				ResourceType: "user",
				ResourceID:   u.Email,
			}
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.take(ctx, "id = ?", id)
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.take(ctx, "email = ?", strings.ToLower(email))
}

func (r *UserRepository) take(ctx context.Context, where string, arg string) (*models.User, error) {
	var row userRow
	if err := r.q(ctx).Where(where, arg).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", arg, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u := row.model()
	return &u, nil
}

// List returns every user ordered by username
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	return r.find(r.q(ctx))
}

// ListByRoles returns users holding any of roles
func (r *UserRepository) ListByRoles(ctx context.Context, roles ...models.Role) ([]models.User, error) {
	if len(roles) == 0 {
		return []models.User{}, nil
	}
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	return r.find(r.q(ctx).Where("role IN ?", names))
}

func (r *UserRepository) find(q *gorm.DB) ([]models.User, error) {
	var rows []userRow
	if err := q.Order("username ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]models.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].model())
	}
	return users, nil
}
