package http

import (
	"context"
	"net/http"
	"time"

	"github.com/ordercraft/auth/pkg/authsdk"
	"github.com/ordercraft/auth/pkg/httpx"
)

// Pinger reports whether a backend is reachable. A nil Pinger means the
// component has no independent backend to probe and always reads "ok".
type Pinger func(ctx context.Context) error

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of the session store and identity backend
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	sessions Pinger,
	identities Pinger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{
			Sessions:   "ok",
			Identities: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if sessions != nil {
			if err := sessions(r.Context()); err != nil {
				checks.Sessions = "error: " + err.Error()
				overallStatus = "degraded"
				statusCode = http.StatusServiceUnavailable
			}
		}

		if identities != nil {
			if err := identities(r.Context()); err != nil {
				checks.Identities = "error: " + err.Error()
				overallStatus = "degraded"
				statusCode = http.StatusServiceUnavailable
			}
		}

		response := authsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
