// Package domain holds the service's core types, free of transport and
// storage concerns.
package domain

import "time"

// Role is the coarse authorization level carried in access-token claims.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a raw claim value onto a known role. Unknown values are
// reported so callers treat them as an authorization failure rather than
// inventing a default.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Identity is an account as the credential store reports it. This service
// reads identities and creates them at registration; every other mutation
// belongs to the user service that owns the records.
type Identity struct {
	ID             string
	Email          string
	PasswordHash   string // bcrypt encoded
	Role           Role
	EmailConfirmed bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
