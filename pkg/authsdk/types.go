package authsdk

// ============================================================================
// Request Types
// ============================================================================

// RegisterRequest is the body for POST /v1/auth/registration.
type RegisterRequest struct {
	// Email is the account email address (also the login name)
	Email string `json:"email"`

	// Password is the plaintext password (8-128 chars)
	Password string `json:"password"`
}

// LoginRequest is the body for POST /v1/auth/login.
type LoginRequest struct {
	// Email is the account email address
	Email string `json:"email"`

	// Password is the plaintext password
	Password string `json:"password"`
}

// RefreshRequest carries an opaque refresh token. It is the body for the
// logout, access-token refresh and session-extension endpoints.
type RefreshRequest struct {
	// RefreshToken is the opaque session token issued at login
	RefreshToken string `json:"refresh_token"`
}

// ============================================================================
// Response Types
// ============================================================================

// TokenResponse is returned from login and access-token refresh.
type TokenResponse struct {
	// AccessToken is the JWT access token used to authenticate API requests
	AccessToken string `json:"access_token"`

	// RefreshToken is the opaque refresh token used to obtain new access tokens
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in"`
}

// MessageResponse is a simple acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response body. This is used internally
// for parsing HTTP error responses; client code should use the APIError type
// from errors.go instead.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g., "invalid_credentials")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
// Used in the /readyz endpoint to indicate the status of each component.
type HealthChecks struct {
	// Sessions indicates the session store connection status
	Sessions string `json:"sessions"`

	// Identities indicates the identity backend status
	Identities string `json:"identities"`
}
