package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"reqgen/internal/auth"
	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/services"
	"reqgen/internal/httputil"
)

// Identity headers accepted when AllowHeaderIdentity is set
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
	HeaderUserName = "X-User-Name"
)

// AuthMiddleware attaches the request actor to the context.
//
// A bearer token must verify or the request is rejected with 401. Without a
// token, the X-User-* headers are trusted when allowHeaders is true. Requests
// carrying neither pass through anonymously; RequirePermission rejects them
// on protected routes.
func AuthMiddleware(verifier auth.JWTVerifier, allowHeaders bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if header := r.Header.Get("Authorization"); header != "" {
				token, ok := strings.CutPrefix(header, "Bearer ")
				if !ok || strings.TrimSpace(token) == "" {
					httputil.RespondError(w, http.StatusUnauthorized, "invalid authorization header")
					return
				}

				claims, err := verifier.VerifyToken(strings.TrimSpace(token))
				if err != nil {
					logger.Debug("token rejected", "path", r.URL.Path, "error", err)
					httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
					return
				}

				next.ServeHTTP(w, httputil.WithIdentity(r, claims.Identity()))
				return
			}

			if allowHeaders && r.Header.Get(HeaderUserID) != "" {
				identity := models.Identity{
					UserID: r.Header.Get(HeaderUserID),
					Role:   models.Role(r.Header.Get(HeaderUserRole)),
					Name:   r.Header.Get(HeaderUserName),
				}
				if !identity.Role.Valid() {
					httputil.RespondError(w, http.StatusUnauthorized, "invalid user role")
					return
				}
				next.ServeHTTP(w, httputil.WithIdentity(r, identity))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission guards a route with the authorizer's role table.
// Missing identity is 401, a role without the permission is 403.
func RequirePermission(authorizer services.Authorizer, perm services.Permission, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := httputil.GetIdentity(r)
		if !ok {
			httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		if err := authorizer.Authorize(identity, perm); err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				httputil.RespondError(w, http.StatusForbidden, err.Error())
				return
			}
			httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		next(w, r)
	}
}
