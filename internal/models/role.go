package models

import "strings"

// Role identifies the single role assigned to a user for the lifetime of a session.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
	RoleStudent Role = "student"
)

// Valid returns true when the role is a supported value.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleParent, RoleStudent:
		return true
	default:
		return false
	}
}

// HomePath returns the default landing route for the role, used as the
// redirect target when access to another route is denied.
func (r Role) HomePath() string {
	switch r {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleTeacher:
		return "/teacher/dashboard"
	case RoleParent:
		return "/parent/dashboard"
	case RoleStudent:
		return "/student/dashboard"
	default:
		return "/auth"
	}
}

// ParseRole normalizes a raw string into a Role. The zero Role is returned
// for unknown input.
func ParseRole(raw string) Role {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return ""
	}
	return role
}
