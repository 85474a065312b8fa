package http

import (
	"net/http"

	"github.com/ordercraft/auth/internal/auth/service"
	"github.com/ordercraft/auth/pkg/authsdk"
)

// ValidateHandler serves GET /v1/auth/validate, the forward-auth endpoint an
// ingress proxy calls before letting a request through. The original request
// line arrives in the X-Original-URI and X-Original-Method headers; the
// Authorization header is passed through as-is.
type ValidateHandler struct {
	AuthorizeService *service.AuthorizeService
}

// ServeHTTP godoc
//
//	@Summary		Validate Request Authorization
//	@Description	Decides whether the request described by the X-Original-URI and
//	@Description	X-Original-Method headers may proceed. Public GETs pass without a
//	@Description	token; protected paths need a USER or ADMIN token; everything else
//	@Description	needs ADMIN. Responds 204 when allowed, 401 when denied.
//	@Tags			Auth
//	@Param			X-Original-URI		header	string	true	"Path of the original request"
//	@Param			X-Original-Method	header	string	true	"Method of the original request"
//	@Param			Authorization		header	string	false	"Bearer access token of the original request"
//	@Success		204	"request allowed"
//	@Failure		400	{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401	{object}	authsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/auth/validate [get].
func (h *ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uri := r.Header.Get("X-Original-URI")
	method := r.Header.Get("X-Original-Method")
	if uri == "" || method == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthorizeService.Authorize(r.Header.Get("Authorization"), uri, method); err != nil {
		authsdk.ErrUnauthorized.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
