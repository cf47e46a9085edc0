// Package identity models principals, roles and user profiles.
package identity

import "fmt"

// Principal is an opaque identity reference for an authenticated caller.
type Principal string

// Anonymous is the zero principal for unauthenticated callers.
const Anonymous Principal = ""

// IsZero reports whether the principal is unset.
func (p Principal) IsZero() bool { return p == Anonymous }

func (p Principal) String() string { return string(p) }

// Role is the caller's authorization level.
type Role string

// Role constants.
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser, RoleGuest:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}

// CanAdminister reports whether the role may mutate master data,
// form definitions and escalation rules.
func (r Role) CanAdminister() bool { return r == RoleAdmin }

// Profile is a user-maintained identity record.
type Profile struct {
	name       string
	email      string
	department string
}

// NewProfile validates and creates a Profile. Email and department are optional.
func NewProfile(name, email, department string) (Profile, error) {
	if name == "" {
		return Profile{}, fmt.Errorf("profile name is required")
	}
	if len(name) > 128 {
		return Profile{}, fmt.Errorf("profile name too long (max 128)")
	}
	return Profile{name: name, email: email, department: department}, nil
}

// ReconstructProfile creates a Profile without validation (storage hydration).
func ReconstructProfile(name, email, department string) Profile {
	return Profile{name: name, email: email, department: department}
}

// Name returns the display name.
func (p Profile) Name() string { return p.name }

// Email returns the optional email ("" when unset).
func (p Profile) Email() string { return p.email }

// Department returns the optional home department id ("" when unset).
func (p Profile) Department() string { return p.department }
