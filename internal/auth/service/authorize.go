package service

import (
	"net/http"
	"strings"

	"github.com/ordercraft/auth/internal/auth/domain"
	"github.com/ordercraft/auth/pkg/jwtx"
)

// AuthorizeService is the route gate the edge proxy consults before
// forwarding a request to the user or order services. It is pure: no
// store access, safe for unsynchronized concurrent use.
type AuthorizeService struct {
	Verifier jwtx.Verifier

	// ProtectedPrefixes are the path prefixes ordinary users may enter.
	// Anything outside them is either a public GET or admin territory.
	ProtectedPrefixes []string
}

// Authorize decides whether the original request may proceed. A nil
// return allows; ErrUnauthorized denies. The decision order:
//
//  1. GETs outside every protected prefix are public.
//  2. Everything else needs a well-formed bearer token,
//  3. which must verify,
//  4. carry a known role permitted for the path class
//     (protected prefix: USER or ADMIN; anywhere else: ADMIN only),
//  5. and be unexpired, checked explicitly as the final step.
func (s *AuthorizeService) Authorize(authorization, path, method string) error {
	protected := s.isProtected(path)

	if method == http.MethodGet && !protected {
		return nil
	}

	if authorization == "" || !strings.HasPrefix(authorization, "Bearer ") {
		return ErrUnauthorized
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authorization, "Bearer"))

	claims, err := s.Verifier.Verify(raw)
	if err != nil {
		return ErrUnauthorized
	}

	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return ErrUnauthorized
	}

	if !protected && role != domain.RoleAdmin {
		return ErrUnauthorized
	}

	if err := claims.ValidateExpiry(); err != nil {
		return ErrUnauthorized
	}

	return nil
}

func (s *AuthorizeService) isProtected(path string) bool {
	for _, prefix := range s.ProtectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
