package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client is a client for the OrderCraft authentication service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new auth service client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates a new account. New accounts always start with the USER
// role and an unconfirmed email.
func (c *Client) Register(ctx context.Context, email, password string) error {
	body := RegisterRequest{Email: email, Password: password}

	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/auth/registration", body, nil)
	if err != nil {
		return err
	}

	var msg MessageResponse
	return decodeJSON(resp, &msg, http.StatusCreated)
}

// Login exchanges credentials for a token pair: a signed access token and an
// opaque refresh token backed by a server-side session.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	body := LoginRequest{Email: email, Password: password}

	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login", body, nil)
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens, http.StatusOK); err != nil {
		return nil, err
	}

	return &tokens, nil
}

// Logout revokes the refresh session behind the given token. Revoking a
// token that no longer exists is not an error.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := RefreshRequest{RefreshToken: refreshToken}

	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/auth/logout", body, nil)
	if err != nil {
		return err
	}

	return checkStatusNoContent(resp)
}

// LogoutAll revokes every refresh session belonging to the account behind
// the given access token.
func (c *Client) LogoutAll(ctx context.Context, accessToken string) error {
	headers := map[string]string{"Authorization": "Bearer " + accessToken}

	resp, err := c.doJSON(ctx, http.MethodDelete, "/v1/auth/sessions", nil, headers)
	if err != nil {
		return err
	}

	return checkStatusNoContent(resp)
}

// RefreshAccessToken mints a fresh access token from a refresh token. The
// refresh token itself is returned unchanged.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	body := RefreshRequest{RefreshToken: refreshToken}

	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/tokens/access", body, nil)
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens, http.StatusOK); err != nil {
		return nil, err
	}

	return &tokens, nil
}

// ExtendRefreshToken pushes the refresh session's expiry further into the
// future. Already-expired sessions cannot be extended.
func (c *Client) ExtendRefreshToken(ctx context.Context, refreshToken string) error {
	body := RefreshRequest{RefreshToken: refreshToken}

	resp, err := c.doJSON(ctx, http.MethodPatch, "/v1/tokens/refresh", body, nil)
	if err != nil {
		return err
	}

	return checkStatusNoContent(resp)
}

// Validate asks the auth service whether a request carrying the given
// Authorization header may reach the given path and method. This mirrors the
// subrequest an ingress proxy makes: the original request line travels in the
// X-Original-URI and X-Original-Method headers. A nil return means allowed.
func (c *Client) Validate(ctx context.Context, authorization, originalURI, originalMethod string) error {
	headers := map[string]string{
		"X-Original-URI":    originalURI,
		"X-Original-Method": originalMethod,
	}
	if authorization != "" {
		headers["Authorization"] = authorization
	}

	resp, err := c.doJSON(ctx, http.MethodGet, "/v1/auth/validate", nil, headers)
	if err != nil {
		return err
	}

	return checkStatusNoContent(resp)
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/livez", nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}

	return &health, nil
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}

	return &health, nil
}
