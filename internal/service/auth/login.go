package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/repositories"
	"reqgen/internal/domain/services"
)

const invalidCredentials = "invalid email, password, or role"

// LoginService implements AuthService with bcrypt password checks
type LoginService struct {
	users  repositories.UserRepository
	tokens services.TokenIssuer
	logger *slog.Logger
}

// NewLoginService creates a new login service
func NewLoginService(users repositories.UserRepository, tokens services.TokenIssuer, logger *slog.Logger) services.AuthService {
	return &LoginService{users: users, tokens: tokens, logger: logger}
}

// Login checks email, password and role together
func (s *LoginService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if req == nil || strings.TrimSpace(req.Email) == "" || req.Password == "" || req.Role == "" {
		return nil, domain.NewValidationError("email", "email, password, and role are required")
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debug("login rejected", "reason", "unknown email")
			return nil, &domain.UnauthorizedError{Message: invalidCredentials}
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.logger.Debug("login rejected", "reason", "bad password", "user_id", user.ID)
		return nil, &domain.UnauthorizedError{Message: invalidCredentials}
	}

	if user.Role != req.Role {
		s.logger.Debug("login rejected", "reason", "role mismatch", "user_id", user.ID)
		return nil, &domain.UnauthorizedError{Message: invalidCredentials}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return &models.LoginResponse{User: user, Token: token}, nil
}

// HashPassword returns the bcrypt hash stored for a password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
