// Package service implements the authentication flows: registration,
// login, session lifecycle, token refresh, and route authorization.
package service

import (
	"context"
	"errors"

	"github.com/ordercraft/auth/internal/auth/store"
)

// The service error taxonomy. Handlers map these onto status codes; only
// ErrTransient is safe to retry.
var (
	ErrNotFound           = errors.New("not_found")
	ErrAlreadyExists      = errors.New("already_exists")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrTooManySessions    = errors.New("too_many_sessions")
	ErrExpired            = errors.New("expired_token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTransient          = errors.New("transient_backend_failure")
	ErrMalformed          = errors.New("malformed_token")
)

// mapStoreErr translates store failures into the service taxonomy.
// Backend unreachability and deadline overruns become ErrTransient so
// callers know a retry may succeed; everything else passes through for
// the transport to treat as an internal error.
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrAlreadyExists
	case errors.Is(err, store.ErrSessionLimit):
		return ErrTooManySessions
	case errors.Is(err, store.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return errors.Join(ErrTransient, err)
	default:
		return err
	}
}
