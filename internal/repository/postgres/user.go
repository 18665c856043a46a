package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const userColumns = `id, username, email, password_hash, role, name`

func scanUser(row rowScanner, u *models.User) error {
	return row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Name)
}

// Create inserts a user
func (r *PostgresUserRepository) Create(ctx context.Context, u *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, username, email, password_hash, role, name)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.Users)

	q := executor(ctx, r.pool)
	_, err := q.Exec(ctx, query, u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.Name)
	if err != nil {
		if isUniqueViolation(err) {
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
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, userColumns, r.tables.Users)

	var u models.User
	q := executor(ctx, r.pool)
	if err := scanUser(q.QueryRow(ctx, query, id), &u); err != nil {
		if isMissing(err) {
			return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE lower(email) = lower($1)`, userColumns, r.tables.Users)

	var u models.User
	q := executor(ctx, r.pool)
	if err := scanUser(q.QueryRow(ctx, query, email), &u); err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &u, nil
}

// List returns every user ordered by username
func (r *PostgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY username ASC`, userColumns, r.tables.Users)
	return r.query(ctx, query)
}

// ListByRoles returns users holding any of roles
func (r *PostgresUserRepository) ListByRoles(ctx context.Context, roles ...models.Role) ([]models.User, error) {
	if len(roles) == 0 {
		return []models.User{}, nil
	}

	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE role = ANY($1) ORDER BY username ASC`, userColumns, r.tables.Users)
	return r.query(ctx, query, names)
}

func (r *PostgresUserRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.User, error) {
	q := executor(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}
