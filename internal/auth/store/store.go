// Package store defines the persistence interfaces the services depend
// on, plus the typed errors drivers translate their failures into.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ordercraft/auth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrSessionLimit reports that an owner is at the active-session cap
	// and the record was not inserted.
	ErrSessionLimit = errors.New("store: session limit reached")

	// ErrUnavailable reports that the backing store could not be reached.
	// Callers treat it as retryable.
	ErrUnavailable = errors.New("store: backend unavailable")
)

// Identities is the credential store. This service only ever reads
// accounts and creates them at registration; all other account mutations
// belong to the user service.
type Identities interface {
	// GetByEmail returns the identity for an email, ErrNotFound when the
	// account does not exist.
	GetByEmail(ctx context.Context, email string) (domain.Identity, error)

	// Create inserts a new identity. A duplicate email is
	// ErrAlreadyExists.
	Create(ctx context.Context, id domain.Identity) error
}

// Sessions persists refresh-token records.
//
// Drivers must make Create's count-then-insert atomic with respect to
// concurrent Creates for the same owner; racing logins can never leave an
// owner above the cap.
type Sessions interface {
	// Create inserts sess unless the owner already holds max active
	// (non-expired) sessions, in which case it returns ErrSessionLimit
	// and inserts nothing.
	Create(ctx context.Context, sess domain.RefreshSession, max int) error

	// GetByToken looks up a session by its opaque token value.
	// ErrNotFound when absent; the caller decides how severe that is.
	GetByToken(ctx context.Context, token string) (domain.RefreshSession, error)

	// Delete removes the session holding token. Deleting a token that is
	// not present is a no-op, so logout stays idempotent.
	Delete(ctx context.Context, token string) error

	// DeleteAllByOwner removes every session the owner holds.
	DeleteAllByOwner(ctx context.Context, ownerID string) error

	// ExtendExpiration moves the session's expiry forward by the given
	// increment. The token value itself never changes. ErrNotFound when
	// the token is absent.
	ExtendExpiration(ctx context.Context, token string, by time.Duration) error

	// CountActiveByOwner returns the number of non-expired sessions the
	// owner holds.
	CountActiveByOwner(ctx context.Context, ownerID string) (int, error)

	// DeleteExpired sweeps out records past their expiry. Housekeeping.
	DeleteExpired(ctx context.Context) error
}

// Store is the root data access interface for drivers hosting both
// repositories locally.
type Store interface {
	Identities() Identities
	Sessions() Sessions

	ApplyMigrations() error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}
