package auth

import (
	"fmt"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/services"
)

// RoleAuthorizer implements Authorizer with a static permission table.
// A user holds a permission when their role is listed for it.
type RoleAuthorizer struct {
	grants map[services.Permission][]models.Role
}

var (
	everyone = []models.Role{models.RoleAdmin, models.RoleAnalyst, models.RoleClient}
	editors  = []models.Role{models.RoleAdmin, models.RoleAnalyst}
	admins   = []models.Role{models.RoleAdmin}
)

// DefaultGrants is the ReqGen capability table
func DefaultGrants() map[services.Permission][]models.Role {
	return map[services.Permission][]models.Role{
		services.PermDocumentsRead:   everyone,
		services.PermDocumentsCreate: editors,
		services.PermDocumentsUpdate: everyone,
		services.PermDocumentsDelete: editors,
		services.PermDocumentsExport: everyone,
		services.PermSettingsRead:    everyone,
		services.PermSettingsUpdate:  admins,
		services.PermEmailSend:       editors,
		services.PermAIUse:           editors,
		services.PermNotificationsRW: everyone,
	}
}

// NewRoleAuthorizer creates an authorizer over grants
func NewRoleAuthorizer(grants map[services.Permission][]models.Role) *RoleAuthorizer {
	return &RoleAuthorizer{grants: grants}
}

// Authorize checks that identity's role holds perm
func (a *RoleAuthorizer) Authorize(identity models.Identity, perm services.Permission) error {
	if identity.UserID == "" || !identity.Role.Valid() {
		return fmt.Errorf("%w: missing identity", domain.ErrUnauthorized)
	}

	for _, role := range a.grants[perm] {
		if role == identity.Role {
			return nil
		}
	}

	return &domain.ForbiddenError{
		Message: fmt.Sprintf("role %s is not allowed to %s", identity.Role, perm),
	}
}

// RolesFor lists the roles holding perm
func (a *RoleAuthorizer) RolesFor(perm services.Permission) []models.Role {
	roles := a.grants[perm]
	out := make([]models.Role, len(roles))
	copy(out, roles)
	return out
}
