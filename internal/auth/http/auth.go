package http

import (
	"net/http"
	"strings"

	"github.com/ordercraft/auth/internal/auth/service"
	"github.com/ordercraft/auth/pkg/authsdk"
	"github.com/ordercraft/auth/pkg/httpx"
	"github.com/ordercraft/auth/pkg/slogx"
)

// AuthHandler serves the account endpoints: registration, login, logout
// and logout-everywhere.
type AuthHandler struct {
	AuthService *service.AuthService
}

const (
	minPasswordLen = 8
	maxPasswordLen = 128
)

// HandleRegister godoc
//
//	@Summary		Register Account
//	@Description	Creates a new account with the USER role. The email starts unconfirmed
//	@Description	regardless of what the request contains.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest	true	"email, password"
//	@Success		201		{object}	authsdk.MessageResponse	"message"
//	@Failure		400		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/auth/registration [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validEmail(req.Email) || !validPassword(req.Password) {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.Register(ctx, req.Email, req.Password); err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.MessageResponse{Message: "account created"})
}

// HandleLogin godoc
//
//	@Summary		Login
//	@Description	Verifies credentials and opens a refresh session. Returns a JWT access
//	@Description	token plus an opaque refresh token. Unknown email and wrong password
//	@Description	produce the same error.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"email, password"
//	@Success		200		{object}	authsdk.TokenResponse	"access_token, refresh_token, token_type, expires_in"
//	@Failure		400		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	authsdk.ErrorResponse	"error, error_description - session limit reached"
//	@Failure		500		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Header			200		{string}	Cache-Control			"no-store"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	response := authsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}

// HandleLogout godoc
//
//	@Summary		Logout
//	@Description	Revokes the refresh session behind the presented token. Revoking a
//	@Description	token that does not exist succeeds; logout is idempotent.
//	@Tags			Auth
//	@Accept			json
//	@Success		204	"session revoked"
//	@Failure		400	{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	authsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.RefreshRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.Logout(ctx, req.RefreshToken); err != nil {
		writeServiceError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleLogoutAll godoc
//
//	@Summary		Logout Everywhere
//	@Description	Revokes every refresh session belonging to the authenticated account.
//	@Description	The account is taken from the access token, not the request body.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204	"all sessions revoked"
//	@Failure		401	{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	authsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/auth/sessions [delete].
func (h *AuthHandler) HandleLogoutAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	email := httpx.UserEmailFromContext(ctx)
	if email == "" {
		authsdk.ErrUnauthorized.WriteError(w)
		return
	}

	if err := h.AuthService.LogoutAll(ctx, email); err != nil {
		writeServiceError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && len(email) <= 254
}

func validPassword(password string) bool {
	return len(password) >= minPasswordLen && len(password) <= maxPasswordLen
}
