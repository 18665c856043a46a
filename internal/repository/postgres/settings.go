package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"reqgen/internal/domain/models"
	"reqgen/internal/domain/repositories"
)

// settingsRowID pins the table to a single row
const settingsRowID = 1

// PostgresSettingsRepository implements the SettingsRepository interface
type PostgresSettingsRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewSettingsRepository creates a new PostgresSettingsRepository
func NewSettingsRepository(config *RepositoryConfig) repositories.SettingsRepository {
	return &PostgresSettingsRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Get retrieves the settings row
func (r *PostgresSettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	query := fmt.Sprintf(`
		SELECT company_name, address, phone, email, api_key, logo, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Settings)

	var s models.Settings
	q := executor(ctx, r.pool)
	err := q.QueryRow(ctx, query, settingsRowID).Scan(
		&s.CompanyName,
		&s.Address,
		&s.Phone,
		&s.Email,
		&s.APIKey,
		&s.Logo,
		&s.UpdatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			// Nothing saved yet - return nil (not an error)
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	return &s, nil
}

// Upsert creates or replaces the settings row
func (r *PostgresSettingsRepository) Upsert(ctx context.Context, s *models.Settings) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, company_name, address, phone, email, api_key, logo, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			api_key = EXCLUDED.api_key,
			logo = EXCLUDED.logo,
			updated_at = EXCLUDED.updated_at
	`, r.tables.Settings)

	q := executor(ctx, r.pool)
	_, err := q.Exec(ctx, query,
		settingsRowID,
		s.CompanyName,
		s.Address,
		s.Phone,
		s.Email,
		s.APIKey,
		s.Logo,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}

	return nil
}
