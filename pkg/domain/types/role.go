package types

import (
	"fmt"
	"strings"
)

// Role is the CRM role of the signed-in user
type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// AllRoles returns all valid roles
func AllRoles() []Role {
	return []Role{
		RoleOwner,
		RoleAdmin,
		RoleManager,
		RoleEmployee,
	}
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner,
		RoleAdmin,
		RoleManager,
		RoleEmployee:
		return true
	default:
		return false
	}
}

// IsPrivileged reports whether the role may view other users' activities
func (r Role) IsPrivileged() bool {
	return r == RoleOwner || r == RoleAdmin
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role, ignoring case and surrounding space
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return role, nil
}
