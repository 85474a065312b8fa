package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ordercraft/auth/internal/auth/domain"
	"github.com/ordercraft/auth/internal/auth/store"
	"github.com/ordercraft/auth/pkg/cryptox"
	"github.com/ordercraft/auth/pkg/idx"
	"github.com/ordercraft/auth/pkg/slogx"
)

// AuthService orchestrates registration, login, and logout over the
// credential store and the session service.
type AuthService struct {
	Identities store.Identities
	Sessions   *SessionService
	Tokens     *TokenService

	// CallTimeout bounds each credential-store call.
	CallTimeout time.Duration
}

// Register creates a new account. The confirmation flag is forced off no
// matter what the caller sends; only the user service's confirmation flow
// flips it later.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	log := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	opctx, cancel := s.opCtx(ctx)
	defer cancel()

	err = s.Identities.Create(opctx, domain.Identity{
		ID:             idx.New().String(),
		Email:          email,
		PasswordHash:   hash,
		Role:           domain.RoleUser,
		EmailConfirmed: false,
	})
	if err != nil {
		return mapStoreErr(err)
	}

	log.Info("account registered", "email", email)
	return nil
}

// Login verifies credentials and opens a session. A missing account and a
// wrong password are the same ErrInvalidCredentials to the caller; the
// response must not reveal which half was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	log := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	opctx, cancel := s.opCtx(ctx)
	defer cancel()

	identity, err := s.Identities.GetByEmail(opctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("login rejected", "email", email)
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, mapStoreErr(err)
	}

	if err := cryptox.VerifyPassword(password, identity.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Info("login rejected", "email", email)
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		// A hash bcrypt can't read is a data problem, not a bad login.
		return domain.TokenPair{}, err
	}

	now := time.Now().UTC()
	access, err := s.Tokens.IssueAccessToken(identity, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	sess, err := s.Sessions.Create(ctx, identity)
	if err != nil {
		return domain.TokenPair{}, err
	}

	log.Info("login succeeded", "email", email)
	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: sess.Token,
		ExpiresIn:    s.Tokens.AccessTTL,
	}, nil
}

// Logout revokes exactly the presented refresh token. Idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.Sessions.Delete(ctx, refreshToken)
}

// LogoutAll revokes every session belonging to the account.
func (s *AuthService) LogoutAll(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	opctx, cancel := s.opCtx(ctx)
	defer cancel()

	identity, err := s.Identities.GetByEmail(opctx, email)
	if err != nil {
		return mapStoreErr(err)
	}

	return s.Sessions.DeleteAllByOwner(ctx, identity.ID)
}

func (s *AuthService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.CallTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.CallTimeout)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
