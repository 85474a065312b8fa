package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authhttp "github.com/ordercraft/auth/internal/auth/http"
	"github.com/ordercraft/auth/internal/auth/service"
	"github.com/ordercraft/auth/internal/auth/store/drivers/sqlite"
	"github.com/ordercraft/auth/pkg/authsdk"
	"github.com/ordercraft/auth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "ordercraft-auth-test"

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

func newTestServer(t *testing.T) *authsdk.Client {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	signer, err := jwtx.NewSignerHS256(testSigningKey)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256(testSigningKey, testIssuer)

	tokens := &service.TokenService{
		Signer:    signer,
		Issuer:    testIssuer,
		AccessTTL: 300 * time.Minute,
	}
	sessions := &service.SessionService{
		Sessions:    st.Sessions(),
		Identities:  st.Identities(),
		Tokens:      tokens,
		RefreshTTL:  jwtx.DefaultRefreshTokenTTL,
		ExtendBy:    jwtx.DefaultRefreshTokenTTL,
		MaxSessions: 6,
	}
	auth := &service.AuthService{
		Identities: st.Identities(),
		Sessions:   sessions,
		Tokens:     tokens,
	}
	gate := &service.AuthorizeService{
		Verifier:          verifier,
		ProtectedPrefixes: []string{"/api/v1/users", "/api/v1/orders"},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := authhttp.NewRouter(verifier, "test", logger, st.Ping, nil)
	router.AuthService = auth
	router.SessionService = sessions
	router.AuthorizeService = gate
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return authsdk.NewClient(srv.URL)
}

func TestRegisterLoginRefreshFlow(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "alice@example.com", "hunter2hunter2"))

	tokens, err := client.Login(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	require.Equal(t, "Bearer", tokens.TokenType)
	require.Equal(t, int((300 * time.Minute).Seconds()), tokens.ExpiresIn)

	renewed, err := client.RefreshAccessToken(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, tokens.RefreshToken, renewed.RefreshToken)
	require.NotEmpty(t, renewed.AccessToken)

	require.NoError(t, client.Logout(ctx, tokens.RefreshToken))

	_, err = client.RefreshAccessToken(ctx, tokens.RefreshToken)
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, authsdk.ErrorCodeNotFound, apiErr.Code)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"missing at sign", "not-an-email", "hunter2hunter2"},
		{"empty email", "", "hunter2hunter2"},
		{"short password", "short@example.com", "tiny"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Register(ctx, tt.email, tt.password)
			var apiErr *authsdk.APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, authsdk.ErrorCodeInvalidRequest, apiErr.Code)
			require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "bob@example.com", "hunter2hunter2"))

	err := client.Register(ctx, "bob@example.com", "hunter2hunter2")
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, authsdk.ErrorCodeAlreadyExists, apiErr.Code)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestLoginBadCredentials(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "carol@example.com", "right-password"))

	_, unknownErr := client.Login(ctx, "ghost@example.com", "right-password")
	_, wrongErr := client.Login(ctx, "carol@example.com", "wrong-password")

	for _, err := range []error{unknownErr, wrongErr} {
		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, authsdk.ErrorCodeInvalidCredentials, apiErr.Code)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	}
}

func TestLoginRateLimited(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	// StrictLimit allows a burst of 5 attempts per IP; the 6th gets 429.
	for range 5 {
		_, err := client.Login(ctx, "ghost@example.com", "whatever-pass")
		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	}

	_, err := client.Login(ctx, "ghost@example.com", "whatever-pass")
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestLogoutIsIdempotent(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "dave@example.com", "hunter2hunter2"))
	tokens, err := client.Login(ctx, "dave@example.com", "hunter2hunter2")
	require.NoError(t, err)

	require.NoError(t, client.Logout(ctx, tokens.RefreshToken))
	require.NoError(t, client.Logout(ctx, tokens.RefreshToken))
}

func TestLogoutAll(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "erin@example.com", "hunter2hunter2"))

	first, err := client.Login(ctx, "erin@example.com", "hunter2hunter2")
	require.NoError(t, err)
	second, err := client.Login(ctx, "erin@example.com", "hunter2hunter2")
	require.NoError(t, err)

	require.NoError(t, client.LogoutAll(ctx, first.AccessToken))

	for _, tokens := range []*authsdk.TokenResponse{first, second} {
		_, err := client.RefreshAccessToken(ctx, tokens.RefreshToken)
		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, authsdk.ErrorCodeNotFound, apiErr.Code)
	}
}

func TestLogoutAllRequiresToken(t *testing.T) {
	client := newTestServer(t)

	err := client.LogoutAll(context.Background(), "not-a-valid-jwt")
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestExtendRefreshSession(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "frank@example.com", "hunter2hunter2"))
	tokens, err := client.Login(ctx, "frank@example.com", "hunter2hunter2")
	require.NoError(t, err)

	require.NoError(t, client.ExtendRefreshToken(ctx, tokens.RefreshToken))

	err = client.ExtendRefreshToken(ctx, "00000000-0000-0000-0000-000000000000")
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, authsdk.ErrorCodeNotFound, apiErr.Code)
}

func TestValidateEndpoint(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "grace@example.com", "hunter2hunter2"))
	tokens, err := client.Login(ctx, "grace@example.com", "hunter2hunter2")
	require.NoError(t, err)
	bearer := "Bearer " + tokens.AccessToken

	tests := []struct {
		name          string
		authorization string
		uri           string
		method        string
		allowed       bool
	}{
		{"public GET passes anonymously", "", "/api/v1/catalog", http.MethodGet, true},
		{"protected GET needs a token", "", "/api/v1/users/42", http.MethodGet, false},
		{"user token opens protected paths", bearer, "/api/v1/orders/7", http.MethodPost, true},
		{"user token cannot reach admin paths", bearer, "/api/v1/admin/metrics", http.MethodPost, false},
		{"anonymous POST is denied", "", "/api/v1/catalog", http.MethodPost, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Validate(ctx, tt.authorization, tt.uri, tt.method)
			if tt.allowed {
				require.NoError(t, err)
				return
			}
			var apiErr *authsdk.APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, authsdk.ErrorCodeUnauthorized, apiErr.Code)
			require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		})
	}
}

func TestValidateRequiresOriginalHeaders(t *testing.T) {
	client := newTestServer(t)

	err := client.Validate(context.Background(), "", "", "")
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, authsdk.ErrorCodeInvalidRequest, apiErr.Code)
}

func TestHealthEndpoints(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	live, err := client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Sessions)
}

func TestMalformedBodyRejected(t *testing.T) {
	client := newTestServer(t)

	resp, err := client.HTTPClient.Post(
		client.BaseURL+"/v1/auth/login",
		"application/json",
		strings.NewReader("{not json"),
	)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
