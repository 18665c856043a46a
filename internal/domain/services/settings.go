package services

import (
	"context"

	"reqgen/internal/domain/models"
)

// SettingsService defines the business logic for the global settings row
type SettingsService interface {
	// GetSettings returns the saved settings, or empty defaults if none exist yet
	GetSettings(ctx context.Context) (*models.Settings, error)

	// UpdateSettings validates and replaces the settings row
	UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.Settings, error)
}
