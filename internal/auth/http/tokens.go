package http

import (
	"net/http"

	"github.com/ordercraft/auth/internal/auth/service"
	"github.com/ordercraft/auth/pkg/authsdk"
	"github.com/ordercraft/auth/pkg/httpx"
	"github.com/ordercraft/auth/pkg/slogx"
)

// TokensHandler serves the token lifecycle endpoints: minting fresh access
// tokens and extending refresh sessions.
type TokensHandler struct {
	SessionService *service.SessionService
}

// HandleRefresh godoc
//
//	@Summary		Refresh Access Token
//	@Description	Mints a fresh access token from a live refresh session. Claims are
//	@Description	rebuilt from the account's current state, so role or confirmation
//	@Description	changes land in the next refresh. The refresh token is returned
//	@Description	unchanged.
//	@Tags			Tokens
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest	true	"refresh_token"
//	@Success		200		{object}	authsdk.TokenResponse	"access_token, refresh_token, token_type, expires_in"
//	@Failure		400		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse	"error, error_description - session expired"
//	@Failure		404		{object}	authsdk.ErrorResponse	"error, error_description - unknown token"
//	@Failure		500		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Header			200		{string}	Cache-Control			"no-store"
//	@Router			/v1/tokens/access [post].
func (h *TokensHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
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

	pair, err := h.SessionService.RefreshAccessToken(ctx, req.RefreshToken)
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

// HandleExtend godoc
//
//	@Summary		Extend Refresh Session
//	@Description	Pushes the refresh session's expiry further into the future. A session
//	@Description	that has already expired cannot be brought back.
//	@Tags			Tokens
//	@Accept			json
//	@Success		204	"session extended"
//	@Failure		400	{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401	{object}	authsdk.ErrorResponse	"error, error_description - session expired"
//	@Failure		404	{object}	authsdk.ErrorResponse	"error, error_description - unknown token"
//	@Failure		500	{object}	authsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/tokens/refresh [patch].
func (h *TokensHandler) HandleExtend(w http.ResponseWriter, r *http.Request) {
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

	if err := h.SessionService.Extend(ctx, req.RefreshToken); err != nil {
		writeServiceError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
