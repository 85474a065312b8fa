package service

import (
	"context"
	"errors"
	"time"

	"github.com/ordercraft/auth/internal/auth/domain"
	"github.com/ordercraft/auth/internal/auth/store"
	"github.com/ordercraft/auth/pkg/cryptox"
	"github.com/ordercraft/auth/pkg/idx"
	"github.com/ordercraft/auth/pkg/slogx"
)

// SessionService owns the refresh-session lifecycle: creation under the
// per-owner cap, access-token renewal, extension, and revocation.
type SessionService struct {
	Sessions   store.Sessions
	Identities store.Identities
	Tokens     *TokenService

	// RefreshTTL is the lifetime of a freshly created session.
	RefreshTTL time.Duration

	// ExtendBy is how far a renewal pushes the expiry forward.
	ExtendBy time.Duration

	// MaxSessions is the hard cap on active sessions per owner.
	MaxSessions int

	// PurgeExpired makes refresh delete dead records on discovery
	// instead of leaving them to the housekeeping sweep.
	PurgeExpired bool

	// CallTimeout bounds each store call. Zero disables the bound.
	CallTimeout time.Duration
}

// Create opens a new session for the identity. The opaque token is the
// client's refresh credential; it never changes for the record's life.
// At the cap, the call fails with ErrTooManySessions and stores nothing.
func (s *SessionService) Create(ctx context.Context, id domain.Identity) (domain.RefreshSession, error) {
	now := time.Now().UTC()
	sess := domain.RefreshSession{
		ID:         idx.New().String(),
		OwnerID:    id.ID,
		OwnerEmail: id.Email,
		Token:      cryptox.NewSessionToken(),
		ExpiresAt:  now.Add(s.RefreshTTL),
	}

	opctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.Sessions.Create(opctx, sess, s.MaxSessions); err != nil {
		return domain.RefreshSession{}, mapStoreErr(err)
	}
	return sess, nil
}

// RefreshAccessToken exchanges a live refresh token for a new access
// token. The refresh token itself is returned unchanged; renewal never
// rotates it. Claims come from the identity's current state, so role or
// confirmation changes since login take effect here.
func (s *SessionService) RefreshAccessToken(ctx context.Context, token string) (domain.TokenPair, error) {
	log := slogx.FromContext(ctx)

	if !cryptox.ValidSessionToken(token) {
		return domain.TokenPair{}, ErrNotFound
	}

	opctx, cancel := s.opCtx(ctx)
	defer cancel()

	sess, err := s.Sessions.GetByToken(opctx, token)
	if err != nil {
		return domain.TokenPair{}, mapStoreErr(err)
	}

	now := time.Now().UTC()
	if sess.Expired(now) {
		if s.PurgeExpired {
			if err := s.Sessions.Delete(opctx, token); err != nil {
				log.Warn("failed to purge expired session", "err", err)
			}
		}
		return domain.TokenPair{}, ErrExpired
	}

	identity, err := s.Identities.GetByEmail(opctx, sess.OwnerEmail)
	if err != nil {
		return domain.TokenPair{}, mapStoreErr(err)
	}

	access, err := s.Tokens.IssueAccessToken(identity, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: sess.Token,
		ExpiresIn:    s.Tokens.AccessTTL,
	}, nil
}

// Extend renews a live session by pushing its expiry forward by ExtendBy
// without re-authentication. Expired sessions stay dead; renewal is not a
// resurrection path.
func (s *SessionService) Extend(ctx context.Context, token string) error {
	if !cryptox.ValidSessionToken(token) {
		return ErrNotFound
	}

	opctx, cancel := s.opCtx(ctx)
	defer cancel()

	sess, err := s.Sessions.GetByToken(opctx, token)
	if err != nil {
		return mapStoreErr(err)
	}
	if sess.Expired(time.Now().UTC()) {
		return ErrExpired
	}

	return mapStoreErr(s.Sessions.ExtendExpiration(opctx, token, s.ExtendBy))
}

// Delete revokes the single session holding token. Unknown tokens are a
// successful no-op so logout can be retried safely.
func (s *SessionService) Delete(ctx context.Context, token string) error {
	opctx, cancel := s.opCtx(ctx)
	defer cancel()

	err := s.Sessions.Delete(opctx, token)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return mapStoreErr(err)
	}
	return nil
}

// DeleteAllByOwner revokes every session the owner holds.
func (s *SessionService) DeleteAllByOwner(ctx context.Context, ownerID string) error {
	opctx, cancel := s.opCtx(ctx)
	defer cancel()

	return mapStoreErr(s.Sessions.DeleteAllByOwner(opctx, ownerID))
}

// CountActive reports the owner's live session count.
func (s *SessionService) CountActive(ctx context.Context, ownerID string) (int, error) {
	opctx, cancel := s.opCtx(ctx)
	defer cancel()

	count, err := s.Sessions.CountActiveByOwner(opctx, ownerID)
	if err != nil {
		return 0, mapStoreErr(err)
	}
	return count, nil
}

func (s *SessionService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.CallTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.CallTimeout)
}
