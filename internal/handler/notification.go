package handler

import (
	"log/slog"
	"net/http"

	"reqgen/internal/domain/services"
	"reqgen/internal/httputil"
)

// NotificationHandler serves the caller's notification inbox
type NotificationHandler struct {
	notifService services.NotificationService
	logger       *slog.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifService services.NotificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifService: notifService,
		logger:       logger,
	}
}

// ListNotifications returns the caller's notifications, newest first
// GET /api/notifications
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	items, err := h.notifService.ListForUser(r.Context(), actor.UserID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, items)
}

// MarkRead marks one notification read for the caller
// PATCH /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.notifService.MarkRead(r.Context(), r.PathValue("id"), actor.UserID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, successResponse{Success: true})
}

// MarkAllRead marks every notification of the caller read
// PATCH /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.notifService.MarkAllRead(r.Context(), actor.UserID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, successResponse{Success: true})
}
