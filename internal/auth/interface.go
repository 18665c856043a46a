package auth

import "reqgen/internal/domain/models"

// JWTVerifier defines the interface for JWT token verification.
// The auth middleware only depends on this, so tokens may come from the
// built-in HS256 issuer or an external identity provider.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns an error wrapping domain.ErrUnauthorized if the token is invalid,
	// expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	Close() error
}
