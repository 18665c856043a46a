package services

import (
	"context"

	"reqgen/internal/domain/models"
)

// Permission names an action as "resource:action", e.g. "documents:delete"
type Permission string

const (
	PermDocumentsRead   Permission = "documents:read"
	PermDocumentsCreate Permission = "documents:create"
	PermDocumentsUpdate Permission = "documents:update"
	PermDocumentsDelete Permission = "documents:delete"
	PermDocumentsExport Permission = "documents:export"
	PermSettingsRead    Permission = "settings:read"
	PermSettingsUpdate  Permission = "settings:update"
	PermEmailSend       Permission = "email:send"
	PermAIUse           Permission = "ai:use"
	PermNotificationsRW Permission = "notifications:manage"
)

// Authorizer decides whether an identity holds a permission.
// Returns an error wrapping domain.ErrForbidden when it does not.
type Authorizer interface {
	Authorize(identity models.Identity, perm Permission) error

	// RolesFor lists the roles holding perm, for error messages and docs
	RolesFor(perm Permission) []models.Role
}

// AuthService authenticates users and issues bearer tokens
type AuthService interface {
	// Login checks email, password and role together; any mismatch is domain.ErrUnauthorized
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

// TokenIssuer signs tokens for authenticated users
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}
