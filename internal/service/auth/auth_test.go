package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/services"
	"reqgen/internal/repository/memory"
)

func TestRoleAuthorizer(t *testing.T) {
	authz := NewRoleAuthorizer(DefaultGrants())

	tests := []struct {
		role    models.Role
		perm    services.Permission
		allowed bool
	}{
		{models.RoleAdmin, services.PermSettingsUpdate, true},
		{models.RoleAnalyst, services.PermSettingsUpdate, false},
		{models.RoleAnalyst, services.PermDocumentsDelete, true},
		{models.RoleClient, services.PermDocumentsDelete, false},
		{models.RoleClient, services.PermDocumentsCreate, false},
		{models.RoleClient, services.PermDocumentsUpdate, true},
		{models.RoleClient, services.PermEmailSend, false},
		{models.RoleClient, services.PermNotificationsRW, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+" "+string(tt.perm), func(t *testing.T) {
			err := authz.Authorize(models.Identity{UserID: "u", Role: tt.role}, tt.perm)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, domain.ErrForbidden))
			}
		})
	}

	err := authz.Authorize(models.Identity{}, services.PermDocumentsRead)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	assert.ElementsMatch(t, []models.Role{models.RoleAdmin, models.RoleAnalyst}, authz.RolesFor(services.PermEmailSend))
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(u *models.User) (string, error) { return "token-" + u.ID, nil }

func TestLoginService(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := memory.NewUserRepository(memory.NewStore(logger))

	hash, err := HashPassword("analyst123")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, &models.User{
		ID: "u-1", Username: "analyst", Email: "analyst@reqgen.com", PasswordHash: hash,
		Role: models.RoleAnalyst, Name: "Business Analyst",
	}))

	svc := NewLoginService(users, fakeIssuer{}, logger)

	resp, err := svc.Login(ctx, &models.LoginRequest{Email: "analyst@reqgen.com", Password: "analyst123", Role: models.RoleAnalyst})
	require.NoError(t, err)
	assert.Equal(t, "token-u-1", resp.Token)
	assert.Equal(t, "Business Analyst", resp.User.Name)

	rejected := []*models.LoginRequest{
		{Email: "analyst@reqgen.com", Password: "wrong", Role: models.RoleAnalyst},
		{Email: "analyst@reqgen.com", Password: "analyst123", Role: models.RoleAdmin},
		{Email: "nobody@reqgen.com", Password: "analyst123", Role: models.RoleAnalyst},
	}
	for _, req := range rejected {
		_, err := svc.Login(ctx, req)
		var uerr *domain.UnauthorizedError
		require.True(t, errors.As(err, &uerr), req.Email)
		assert.Equal(t, "invalid email, password, or role", uerr.Message)
	}

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "analyst@reqgen.com"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
