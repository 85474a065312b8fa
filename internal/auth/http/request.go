package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ordercraft/auth/pkg/authsdk"
)

// maxBodyBytes caps request bodies; every endpoint takes a tiny JSON document.
const maxBodyBytes = 1 << 16

// decodeBody parses a JSON request body into target. On failure it writes an
// invalid_request response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/json") {
		authsdk.ErrInvalidRequest.WriteError(w)
		return false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return false
	}

	return true
}
