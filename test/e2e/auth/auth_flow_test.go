package auth_test

import (
	"net/http"
	"testing"

	"github.com/ordercraft/auth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestRegisterLoginRefreshLogout walks the primary session lifecycle:
// 1. Register an account
// 2. Login to obtain a token pair
// 3. Refresh the access token (refresh token must not rotate)
// 4. Logout
// 5. Verify the refresh token is dead
func TestRegisterLoginRefreshLogout(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	ctx := t.Context()

	tokens := registerAndLogin(t, client, "alice@example.com")

	renewed, err := client.RefreshAccessToken(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assertTokenResponse(t, renewed)
	require.Equal(t, tokens.RefreshToken, renewed.RefreshToken,
		"refresh must return the same refresh token")
	require.NotEmpty(t, renewed.AccessToken)

	require.NoError(t, client.Logout(ctx, tokens.RefreshToken))

	_, err = client.RefreshAccessToken(ctx, tokens.RefreshToken)
	assertAPIError(t, err, http.StatusNotFound, authsdk.ErrorCodeNotFound)

	// Logout stays idempotent after the session is gone.
	require.NoError(t, client.Logout(ctx, tokens.RefreshToken))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	ctx := t.Context()

	require.NoError(t, client.Register(ctx, "bob@example.com", testPassword))

	err := client.Register(ctx, "bob@example.com", testPassword)
	assertAPIError(t, err, http.StatusConflict, authsdk.ErrorCodeAlreadyExists)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	ctx := t.Context()

	require.NoError(t, client.Register(ctx, "carol@example.com", testPassword))

	// Unknown account and wrong password must be indistinguishable.
	_, err := client.Login(ctx, "ghost@example.com", testPassword)
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials)

	_, err = client.Login(ctx, "carol@example.com", "wrong-password")
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials)
}

func TestExtendRefreshSession(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	ctx := t.Context()

	tokens := registerAndLogin(t, client, "dave@example.com")

	require.NoError(t, client.ExtendRefreshToken(ctx, tokens.RefreshToken))

	// The token still works after the extension.
	renewed, err := client.RefreshAccessToken(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, tokens.RefreshToken, renewed.RefreshToken)

	err = client.ExtendRefreshToken(ctx, "00000000-0000-0000-0000-000000000000")
	assertAPIError(t, err, http.StatusNotFound, authsdk.ErrorCodeNotFound)
}
