package domain

import "slices"

// Role is a named permission group carried by a principal.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   uint
	TenantID uint
	Roles    []Role
}

// IsAdmin reports whether the principal holds the ADMIN role.
func (p *Principal) IsAdmin() bool {
	return p != nil && slices.Contains(p.Roles, RoleAdmin)
}
