package repositories

import (
	"context"

	"reqgen/internal/domain/models"
)

// SettingsRepository defines data access for the global settings row
type SettingsRepository interface {
	// Get returns the settings row
	// Returns nil if no settings have been saved yet (not an error)
	Get(ctx context.Context) (*models.Settings, error)

	// Upsert creates or replaces the settings row
	Upsert(ctx context.Context, settings *models.Settings) error
}
