package handler

import (
	"log/slog"
	"net/http"

	"reqgen/internal/domain/models"
	"reqgen/internal/domain/services"
	"reqgen/internal/httputil"
)

// AuthHandler handles login and the current identity
type AuthHandler struct {
	authService services.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService services.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login checks credentials and returns the user with a bearer token
// POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// Me returns the identity attached to the request
// GET /api/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	httputil.RespondJSON(w, http.StatusOK, actor)
}
