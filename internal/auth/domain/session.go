package domain

import "time"

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// RefreshSession is one stored refresh-token record. An account may hold
// several at once, one per device, up to the configured cap. The token
// value never changes for the lifetime of the record; renewal only moves
// ExpiresAt forward.
type RefreshSession struct {
	ID         string
	OwnerID    string
	OwnerEmail string
	Token      string // opaque UUID value presented by clients
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Expired reports whether the session is past its expiry at the given
// instant.
func (s RefreshSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
