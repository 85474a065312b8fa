package auth_test

import (
	"net/http"
	"testing"

	"github.com/ordercraft/auth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestValidateForwardAuth drives the forward-auth endpoint the way an
// ingress proxy would, covering the public/protected/admin decision table.
func TestValidateForwardAuth(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	ctx := t.Context()

	tokens := registerAndLogin(t, client, "grace@example.com")
	bearer := "Bearer " + tokens.AccessToken

	tests := []struct {
		name          string
		authorization string
		uri           string
		method        string
		allowed       bool
	}{
		{"anonymous GET outside protected prefixes", "", "/api/v1/catalog/items", http.MethodGet, true},
		{"anonymous GET on protected prefix", "", "/api/v1/users/42", http.MethodGet, false},
		{"anonymous POST outside protected prefixes", "", "/api/v1/catalog/items", http.MethodPost, false},
		{"user GET on protected prefix", bearer, "/api/v1/users/42", http.MethodGet, true},
		{"user POST on protected prefix", bearer, "/api/v1/orders", http.MethodPost, true},
		{"user DELETE on protected prefix", bearer, "/api/v1/orders/7", http.MethodDelete, true},
		{"user on admin territory", bearer, "/api/v1/admin/reports", http.MethodPost, false},
		{"garbage token on protected prefix", "Bearer not.a.jwt", "/api/v1/users/42", http.MethodGet, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Validate(ctx, tt.authorization, tt.uri, tt.method)
			if tt.allowed {
				require.NoError(t, err)
				return
			}
			assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized)
		})
	}
}

func TestValidateAfterLogoutStillAllows(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	ctx := t.Context()

	tokens := registerAndLogin(t, client, "heidi@example.com")
	bearer := "Bearer " + tokens.AccessToken

	// Logout kills the refresh session, but the already-issued access
	// token stays valid until it expires on its own.
	require.NoError(t, client.Logout(ctx, tokens.RefreshToken))
	require.NoError(t, client.Validate(ctx, bearer, "/api/v1/users/1", http.MethodGet))
}
