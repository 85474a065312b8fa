package auth_test

import (
	"net/http"
	"testing"

	"github.com/ordercraft/auth/pkg/authsdk"
)

// TestLoginRateLimit runs against the production rate limit profiles and
// confirms the strict limit on the login endpoint kicks in.
func TestLoginRateLimit(t *testing.T) {
	baseURL, cleanup := setupAuthContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	ctx := t.Context()

	// StrictLimit allows a burst of 5 attempts per IP.
	for range 5 {
		_, err := client.Login(ctx, "nobody@example.com", "whatever-pass")
		assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials)
	}

	_, err := client.Login(ctx, "nobody@example.com", "whatever-pass")
	assertAPIError(t, err, http.StatusTooManyRequests, "")
}
