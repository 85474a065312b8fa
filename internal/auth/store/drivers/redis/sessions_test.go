package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/ordercraft/auth/internal/auth/domain"
	"github.com/ordercraft/auth/internal/auth/store"
	"github.com/ordercraft/auth/pkg/idx"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestSessions(t *testing.T) *Sessions {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewSessions(rdb, "authtest")
}

func newSession(ownerID string, expiresAt time.Time) domain.RefreshSession {
	return domain.RefreshSession{
		ID:         idx.New().String(),
		OwnerID:    ownerID,
		OwnerEmail: ownerID + "@example.com",
		Token:      uuid.NewString(),
		ExpiresAt:  expiresAt,
	}
}

func TestCreateAndGet(t *testing.T) {
	s := newTestSessions(t)
	ctx := context.Background()

	expiry := time.Now().UTC().Add(time.Hour).Truncate(time.Millisecond)
	sess := newSession("owner-1", expiry)
	require.NoError(t, s.Create(ctx, sess, 6))

	got, err := s.GetByToken(ctx, sess.Token)
	require.NoError(t, err)
	require.Equal(t, sess.ID, got.ID)
	require.Equal(t, sess.OwnerID, got.OwnerID)
	require.Equal(t, sess.OwnerEmail, got.OwnerEmail)
	require.Equal(t, sess.Token, got.Token)
	require.Equal(t, expiry, got.ExpiresAt)
}

func TestGetUnknownToken(t *testing.T) {
	s := newTestSessions(t)

	_, err := s.GetByToken(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCapEnforced(t *testing.T) {
	s := newTestSessions(t)
	ctx := context.Background()
	future := time.Now().UTC().Add(time.Hour)

	const limit = 6
	for range limit {
		require.NoError(t, s.Create(ctx, newSession("capped", future), limit))
	}

	err := s.Create(ctx, newSession("capped", future), limit)
	require.ErrorIs(t, err, store.ErrSessionLimit)

	count, err := s.CountActiveByOwner(ctx, "capped")
	require.NoError(t, err)
	require.Equal(t, limit, count)
}

func TestCapIgnoresExpired(t *testing.T) {
	s := newTestSessions(t)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	for range 6 {
		require.NoError(t, s.Create(ctx, newSession("revived", past), 6))
	}

	// The create script prunes dead ZSET members before counting.
	require.NoError(t, s.Create(ctx, newSession("revived", future), 6))

	count, err := s.CountActiveByOwner(ctx, "revived")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestSessions(t)
	ctx := context.Background()

	sess := newSession("deleter", time.Now().UTC().Add(time.Hour))
	require.NoError(t, s.Create(ctx, sess, 6))

	require.NoError(t, s.Delete(ctx, sess.Token))
	require.NoError(t, s.Delete(ctx, sess.Token))
	require.NoError(t, s.Delete(ctx, uuid.NewString()))

	_, err := s.GetByToken(ctx, sess.Token)
	require.ErrorIs(t, err, store.ErrNotFound)

	count, err := s.CountActiveByOwner(ctx, "deleter")
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestDeleteAllByOwner(t *testing.T) {
	s := newTestSessions(t)
	ctx := context.Background()
	future := time.Now().UTC().Add(time.Hour)

	tokens := make([]string, 0, 3)
	for range 3 {
		sess := newSession("bulk", future)
		require.NoError(t, s.Create(ctx, sess, 6))
		tokens = append(tokens, sess.Token)
	}
	other := newSession("someone-else", future)
	require.NoError(t, s.Create(ctx, other, 6))

	require.NoError(t, s.DeleteAllByOwner(ctx, "bulk"))

	for _, token := range tokens {
		_, err := s.GetByToken(ctx, token)
		require.ErrorIs(t, err, store.ErrNotFound)
	}

	_, err := s.GetByToken(ctx, other.Token)
	require.NoError(t, err)
}

func TestExtendExpiration(t *testing.T) {
	s := newTestSessions(t)
	ctx := context.Background()

	expiry := time.Now().UTC().Add(time.Hour).Truncate(time.Millisecond)
	sess := newSession("extender", expiry)
	require.NoError(t, s.Create(ctx, sess, 6))

	require.NoError(t, s.ExtendExpiration(ctx, sess.Token, 7*24*time.Hour))

	got, err := s.GetByToken(ctx, sess.Token)
	require.NoError(t, err)
	require.Equal(t, sess.Token, got.Token, "token must not rotate on extension")
	require.Equal(t, expiry.Add(7*24*time.Hour), got.ExpiresAt)
}

func TestExtendUnknownToken(t *testing.T) {
	s := newTestSessions(t)

	err := s.ExtendExpiration(context.Background(), uuid.NewString(), time.Hour)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUnavailableBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	s := NewSessions(rdb, "authtest")
	mr.Close()

	_, err := s.GetByToken(context.Background(), uuid.NewString())
	require.Error(t, err)
	require.True(t, errors.Is(err, store.ErrUnavailable))
}
