package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
)

// Issuer is the iss claim of tokens signed by this service
const Issuer = "reqgen"

// HMACTokens signs and verifies HS256 tokens with a shared secret.
// It is both the login TokenIssuer and a JWTVerifier.
type HMACTokens struct {
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewHMACTokens creates an HS256 issuer/verifier
func NewHMACTokens(secret string, ttl time.Duration, logger *slog.Logger) (*HMACTokens, error) {
	if len(secret) < 16 {
		return nil, errors.New("JWT secret must be at least 16 characters")
	}
	return &HMACTokens{
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Issue signs a token for user
func (t *HMACTokens) Issue(user *models.User) (string, error) {
	now := t.now()
	claims := &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Role:  user.Role,
		Name:  user.Name,
		Email: user.Email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates an HS256 token issued by Issue
func (t *HMACTokens) VerifyToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{},
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		t.logger.Debug("token parse failed", "error", err)
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	return checkClaims(claims, t.logger)
}

// Close is a no-op
func (t *HMACTokens) Close() error {
	return nil
}

// ChainVerifier accepts a token when any of its verifiers does
type ChainVerifier []JWTVerifier

// VerifyToken tries each verifier in order
func (c ChainVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	err := fmt.Errorf("%w: no token verifier configured", domain.ErrUnauthorized)
	for _, v := range c {
		var claims *models.Claims
		if claims, err = v.VerifyToken(tokenString); err == nil {
			return claims, nil
		}
	}
	return nil, err
}

// Close closes every verifier
func (c ChainVerifier) Close() error {
	var errs []error
	for _, v := range c {
		if err := v.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
