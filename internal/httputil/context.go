package httputil

import (
	"context"
	"net/http"

	"reqgen/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	identityKey contextKey = "identity"
)

// WithIdentity attaches the authenticated actor to the request context
func WithIdentity(r *http.Request, identity models.Identity) *http.Request {
	ctx := context.WithValue(r.Context(), identityKey, identity)
	return r.WithContext(ctx)
}

// GetIdentity returns the actor attached by the auth middleware
func GetIdentity(r *http.Request) (models.Identity, bool) {
	identity, ok := r.Context().Value(identityKey).(models.Identity)
	return identity, ok && identity.UserID != ""
}

// GetUserID retrieves the actor's user ID, returns empty string if not found
func GetUserID(r *http.Request) string {
	identity, _ := GetIdentity(r)
	return identity.UserID
}
