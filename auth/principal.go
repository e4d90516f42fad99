package auth

import (
	"slices"

	"github.com/google/uuid"
)

// Principal is the authenticated caller and its role claims.
type Principal struct {
	UserID   uuid.UUID
	UserName string
	Roles    []string
}

func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// Authorizer decides whether a principal may act in a role.
type Authorizer interface {
	Permits(p Principal, requiredRole string) bool
}

// RoleAuthorizer permits principals that carry the required role claim.
type RoleAuthorizer struct{}

func (RoleAuthorizer) Permits(p Principal, requiredRole string) bool {
	return p.UserID != uuid.Nil && p.HasRole(requiredRole)
}
