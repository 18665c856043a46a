package memory

import (
	"context"

	"reqgen/internal/domain/models"
	"reqgen/internal/domain/repositories"
)

// SettingsRepository implements repositories.SettingsRepository over a Store
type SettingsRepository struct {
	store *Store
}

// NewSettingsRepository creates a new in-memory settings repository
func NewSettingsRepository(store *Store) repositories.SettingsRepository {
	return &SettingsRepository{store: store}
}

// Get returns the settings row or nil when none has been saved
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if r.store.settings == nil {
		return nil, nil
	}
	settings := *r.store.settings
	return &settings, nil
}

// Upsert replaces the settings row
func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.Settings) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	saved := *settings
	r.store.settings = &saved
	r.store.markDirty()
	return nil
}
