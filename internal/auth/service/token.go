package service

import (
	"time"

	"github.com/ordercraft/auth/internal/auth/domain"
	"github.com/ordercraft/auth/pkg/jwtx"
)

// TokenService mints access tokens. Both login and refresh issue through
// it so the claims shape stays in one place.
type TokenService struct {
	Signer    *jwtx.HS256Signer
	Issuer    string
	AccessTTL time.Duration
}

// IssueAccessToken signs a fresh access token from the identity's current
// state. Claims always reflect the account as it is now, not as it was at
// login.
func (s *TokenService) IssueAccessToken(id domain.Identity, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(
		id.Email,
		string(id.Role),
		id.EmailConfirmed,
		s.AccessTTL,
		s.Issuer,
		now,
	)
	return s.Signer.Sign(claims)
}
