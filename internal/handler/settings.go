package handler

import (
	"log/slog"
	"net/http"

	"reqgen/internal/domain/models"
	"reqgen/internal/domain/services"
	"reqgen/internal/httputil"
)

// SettingsHandler handles the global settings row
type SettingsHandler struct {
	service services.SettingsService
	logger  *slog.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(service services.SettingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		logger:  logger,
	}
}

// GetSettings returns the saved settings or empty defaults
// GET /api/settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetSettings(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, settings)
}

// UpdateSettings replaces the settings row
// PUT /api/settings
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	settings, err := h.service.UpdateSettings(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, settings)
}
