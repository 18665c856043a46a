package handler

import (
	"net/http"

	"reqgen/internal/domain/services"
	mw "reqgen/internal/middleware"
)

// Handlers groups every HTTP handler served by the API
type Handlers struct {
	Auth          *AuthHandler
	Documents     *DocumentHandler
	Notifications *NotificationHandler
	Settings      *SettingsHandler
	Export        *ExportHandler
	AI            *AIHandler

	// Storage names the active storage driver, reported by /health
	Storage string
}

// Register mounts the routes on mux (Go 1.22+ method patterns).
// Each protected route is wrapped with its permission guard.
func (h *Handlers) Register(mux *http.ServeMux, authz services.Authorizer) {
	guard := func(perm services.Permission, fn http.HandlerFunc) http.HandlerFunc {
		return mw.RequirePermission(authz, perm, fn)
	}

	// Health check
	mux.HandleFunc("GET /health", HealthCheck(h.Storage))

	// Auth routes
	mux.HandleFunc("POST /api/login", h.Auth.Login)
	mux.HandleFunc("GET /api/me", h.Auth.Me)

	// Document routes
	mux.HandleFunc("GET /api/documents", guard(services.PermDocumentsRead, h.Documents.ListDocuments))
	mux.HandleFunc("POST /api/documents", guard(services.PermDocumentsCreate, h.Documents.CreateDocument))
	mux.HandleFunc("GET /api/documents/{id}", guard(services.PermDocumentsRead, h.Documents.GetDocument))
	mux.HandleFunc("PATCH /api/documents/{id}", guard(services.PermDocumentsUpdate, h.Documents.UpdateDocument))
	mux.HandleFunc("DELETE /api/documents/{id}", guard(services.PermDocumentsDelete, h.Documents.DeleteDocument))

	// Export routes
	mux.HandleFunc("GET /api/documents/{id}/pdf", guard(services.PermDocumentsExport, h.Export.DocumentPDF))
	mux.HandleFunc("GET /api/documents/{id}/markdown", guard(services.PermDocumentsExport, h.Export.DocumentMarkdown))
	mux.HandleFunc("POST /api/generate-pdf", guard(services.PermDocumentsExport, h.Export.GeneratePDF))
	mux.HandleFunc("POST /api/send-email", guard(services.PermEmailSend, h.Export.SendEmail))

	// Notification routes
	mux.HandleFunc("GET /api/notifications", guard(services.PermNotificationsRW, h.Notifications.ListNotifications))
	mux.HandleFunc("PATCH /api/notifications/read-all", guard(services.PermNotificationsRW, h.Notifications.MarkAllRead))
	mux.HandleFunc("PATCH /api/notifications/{id}/read", guard(services.PermNotificationsRW, h.Notifications.MarkRead))

	// Settings routes
	mux.HandleFunc("GET /api/settings", guard(services.PermSettingsRead, h.Settings.GetSettings))
	mux.HandleFunc("PUT /api/settings", guard(services.PermSettingsUpdate, h.Settings.UpdateSettings))

	// AI routes
	mux.HandleFunc("POST /api/python-backend/summarize", guard(services.PermAIUse, h.AI.Summarize))
	mux.HandleFunc("POST /api/python-backend/generate-document", guard(services.PermAIUse, h.AI.GenerateDocument))
	mux.HandleFunc("POST /api/transcribe", guard(services.PermAIUse, h.AI.Transcribe))
	mux.HandleFunc("GET /api/templates", guard(services.PermDocumentsRead, h.AI.ListTemplates))
}
