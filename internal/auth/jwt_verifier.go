package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
)

// JWKSVerifier implements JWTVerifier for tokens signed by an external identity
// provider that publishes its keys as a JWKS document.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewJWKSVerifier creates a verifier that fetches public keys from jwksURL.
// keyfunc caches the keys and refreshes them in the background until Close.
func NewJWKSVerifier(jwksURL string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWKS verifier initialized", "jwks_url", jwksURL)

	return &JWKSVerifier{
		jwks:   jwks,
		cancel: cancel,
		logger: logger,
	}, nil
}

// VerifyToken validates an RS256/ES256 token and extracts its claims.
// The token must carry a subject and one of the ReqGen roles.
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, v.jwks.Keyfunc,
		// Prevent algorithm confusion attacks
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
	)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	return checkClaims(claims, v.logger)
}

// Close stops the background key refresh
func (v *JWKSVerifier) Close() error {
	v.cancel()
	v.logger.Info("JWKS verifier closed")
	return nil
}

// checkClaims rejects tokens without a subject or with an unknown role
func checkClaims(claims *models.Claims, logger *slog.Logger) (*models.Claims, error) {
	if claims.Subject == "" {
		logger.Debug("token missing subject claim")
		return nil, fmt.Errorf("%w: token missing subject", domain.ErrUnauthorized)
	}

	if !claims.Role.Valid() {
		logger.Warn("token has invalid role", "role", claims.Role, "user_id", claims.Subject)
		return nil, fmt.Errorf("%w: token has invalid role", domain.ErrUnauthorized)
	}

	return claims, nil
}
