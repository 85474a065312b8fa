// Package http wires the authentication services onto HTTP endpoints.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ordercraft/auth/internal/auth/service"
	"github.com/ordercraft/auth/pkg/authsdk"
)

// writeServiceError translates the service error taxonomy into wire errors.
// Anything outside the taxonomy is an internal error: logged in full,
// reported to the client without detail.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrAlreadyExists):
		authsdk.ErrAlreadyExists.WriteError(w)
	case errors.Is(err, service.ErrTooManySessions):
		authsdk.ErrTooManySessions.WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		authsdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrExpired):
		authsdk.ErrExpiredToken.WriteError(w)
	case errors.Is(err, service.ErrUnauthorized):
		authsdk.ErrUnauthorized.WriteError(w)
	case errors.Is(err, service.ErrMalformed):
		authsdk.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrTransient):
		log.Warn("backend unavailable", "err", err)
		authsdk.ErrUnavailable.WriteError(w)
	default:
		log.Error("request failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}
