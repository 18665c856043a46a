package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reqgen/internal/domain/models"
	"reqgen/internal/domain/repositories"
)

const settingsRowID = 1

// SettingsRepository implements repositories.SettingsRepository on gorm
type SettingsRepository struct {
	db     *gorm.DB
	table  string
	logger *slog.Logger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(cfg *Config) repositories.SettingsRepository {
	return &SettingsRepository{db: cfg.DB, table: cfg.Tables.Settings, logger: cfg.Logger}
}

// Get returns nil when nothing has been saved yet
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var row settingsRow
	if err := conn(ctx, r.db).Table(r.table).Where("id = ?", settingsRowID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &models.Settings{
		CompanyName: row.CompanyName,
		Address:     row.Address,
		Phone:       row.Phone,
		Email:       row.Email,
		APIKey:      row.APIKey,
		Logo:        row.Logo,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

// Upsert creates or replaces the settings row
func (r *SettingsRepository) Upsert(ctx context.Context, s *models.Settings) error {
	row := settingsRow{
		ID:          settingsRowID,
		CompanyName: s.CompanyName,
		Address:     s.Address,
		Phone:       s.Phone,
		Email:       s.Email,
		APIKey:      s.APIKey,
		Logo:        s.Logo,
		UpdatedAt:   s.UpdatedAt,
	}
	err := conn(ctx, r.db).Table(r.table).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
