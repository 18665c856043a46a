// Package seed creates the demo accounts used in development and demos.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/repositories"
	"reqgen/internal/service/auth"
)

// DemoUser is a seeded account with its plain-text password
type DemoUser struct {
	Email    string
	Password string
	Role     models.Role
	Name     string
}

// DemoUsers are the accounts shown on the login screen
var DemoUsers = []DemoUser{
	{Email: "analyst@reqgen.com", Password: "analyst123", Role: models.RoleAnalyst, Name: "Business Analyst"},
	{Email: "admin@reqgen.com", Password: "admin123", Role: models.RoleAdmin, Name: "System Administrator"},
	{Email: "client@reqgen.com", Password: "client123", Role: models.RoleClient, Name: "Client User"},
}

// UserSeeder creates DemoUsers that do not exist yet
type UserSeeder struct {
	users  repositories.UserRepository
	logger *slog.Logger
}

// NewUserSeeder creates a new user seeder
func NewUserSeeder(users repositories.UserRepository, logger *slog.Logger) *UserSeeder {
	return &UserSeeder{users: users, logger: logger}
}

// Seed inserts missing demo users and returns how many were created.
// Running it again creates nothing.
func (s *UserSeeder) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, demo := range DemoUsers {
		_, err := s.users.GetByEmail(ctx, demo.Email)
		if err == nil {
			s.logger.Debug("demo user exists", "email", demo.Email)
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return created, fmt.Errorf("check demo user %s: %w", demo.Email, err)
		}

		hash, err := auth.HashPassword(demo.Password)
		if err != nil {
			return created, err
		}

		user := &models.User{
			ID:           uuid.NewString(),
			Username:     strings.Split(demo.Email, "@")[0],
			Email:        demo.Email,
			PasswordHash: hash,
			Role:         demo.Role,
			Name:         demo.Name,
		}
		if err := s.users.Create(ctx, user); err != nil {
			// Another process seeded the same account first
			if errors.Is(err, domain.ErrConflict) {
				continue
			}
			return created, fmt.Errorf("create demo user %s: %w", demo.Email, err)
		}

		s.logger.Info("demo user created", "email", demo.Email, "role", demo.Role)
		created++
	}
	return created, nil
}
