package models

import "fmt"

// Role is the closed set of user roles in the system. Anything outside
// this set is rejected at the boundary rather than carried around as a
// raw string.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
	RoleGuest   Role = "guest"
)

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleTeacher, RoleStudent, RoleAdmin, RoleGuest:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleTeacher, RoleStudent, RoleAdmin, RoleGuest:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// IsGuest reports whether the role carries no authenticated identity.
func (r Role) IsGuest() bool {
	return r == RoleGuest
}

// SkipsBackgroundVerification reports whether sessions with this role are
// exempt from background re-validation. Admin identity is static
// configuration and guests have nothing to verify against.
func (r Role) SkipsBackgroundVerification() bool {
	return r == RoleAdmin || r == RoleGuest
}
