// Package jwtx is the access-token codec: HS256 signing and verification
// over a shared secret, with explicit, separately-testable claim checks.
package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes. Services override these through config.
const (
	// DefaultAccessTokenTTL is the default access-token lifetime.
	DefaultAccessTokenTTL = 300 * time.Minute

	// DefaultRefreshTokenTTL is the default refresh-session lifetime.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims are the access-token claims shared across services. Subject
// carries the account email.
type Claims struct {
	jwt.RegisteredClaims

	// Role is the coarse authorization level, e.g. "USER" or "ADMIN".
	Role string `json:"role,omitempty"`

	// EmailConfirmed mirrors the account's confirmation state at issue
	// time so downstream services can gate on it without a lookup.
	EmailConfirmed bool `json:"email_confirmed"`
}

// NewAccessClaims builds minimally-correct claims for an access token.
func NewAccessClaims(
	email, role string,
	emailConfirmed bool,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Role:           role,
		EmailConfirmed: emailConfirmed,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer matches the expected value. An empty
// expected issuer enforces nothing.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}

	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf). Verification keeps this as a separate step so
// "bad signature" and "expired" stay distinguishable.
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
