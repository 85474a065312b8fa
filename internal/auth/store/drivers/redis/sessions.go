// Package redis is the alternate session driver for deployments that
// want shared session state without a database file. Identities are not
// stored here; pair it with the remote credential backend.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ordercraft/auth/internal/auth/domain"
	"github.com/ordercraft/auth/internal/auth/store"
	"github.com/redis/go-redis/v9"
)

// Sessions keeps one hash per session plus a per-owner ZSET scored by
// expiry (unix milliseconds). Cap enforcement runs as a Lua script so the
// prune-count-insert sequence is atomic on the server.
type Sessions struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewSessions(rdb redis.UniversalClient, prefix string) *Sessions {
	if prefix == "" {
		prefix = "auth"
	}
	return &Sessions{rdb: rdb, prefix: prefix}
}

func (s *Sessions) sessionKey(token string) string { return s.prefix + ":session:" + token }
func (s *Sessions) ownerKey(ownerID string) string { return s.prefix + ":owner:" + ownerID }

// Ping verifies the redis connection is alive.
func (s *Sessions) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return wrapErr(err)
	}
	return nil
}

// Key construction happens inside the scripts, which rules out redis
// cluster mode. Single-node redis is all this driver targets.
var createScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[2]) then
	return 0
end
redis.call('HSET', KEYS[2],
	'id', ARGV[3],
	'owner_id', ARGV[4],
	'owner_email', ARGV[5],
	'token', ARGV[6],
	'expires_at', ARGV[7],
	'created_at', ARGV[8],
	'updated_at', ARGV[8])
redis.call('PEXPIREAT', KEYS[2], tonumber(ARGV[7]))
redis.call('ZADD', KEYS[1], tonumber(ARGV[7]), ARGV[6])
return 1
`)

func (s *Sessions) Create(ctx context.Context, sess domain.RefreshSession, max int) error {
	now := time.Now().UTC()

	res, err := createScript.Run(ctx, s.rdb,
		[]string{s.ownerKey(sess.OwnerID), s.sessionKey(sess.Token)},
		now.UnixMilli(),
		max,
		sess.ID,
		sess.OwnerID,
		sess.OwnerEmail,
		sess.Token,
		sess.ExpiresAt.UTC().UnixMilli(),
		now.UnixMilli(),
	).Int()
	if err != nil {
		return wrapErr(err)
	}
	if res == 0 {
		return store.ErrSessionLimit
	}
	return nil
}

func (s *Sessions) GetByToken(ctx context.Context, token string) (domain.RefreshSession, error) {
	fields, err := s.rdb.HGetAll(ctx, s.sessionKey(token)).Result()
	if err != nil {
		return domain.RefreshSession{}, wrapErr(err)
	}
	if len(fields) == 0 {
		return domain.RefreshSession{}, store.ErrNotFound
	}
	return sessionFromFields(fields)
}

var deleteScript = redis.NewScript(`
local owner = redis.call('HGET', KEYS[1], 'owner_id')
local token = redis.call('HGET', KEYS[1], 'token')
if owner then
	redis.call('ZREM', ARGV[1] .. ':owner:' .. owner, token)
end
return redis.call('DEL', KEYS[1])
`)

func (s *Sessions) Delete(ctx context.Context, token string) error {
	// The script returns 0 for an absent token; that is still success.
	err := deleteScript.Run(ctx, s.rdb, []string{s.sessionKey(token)}, s.prefix).Err()
	return wrapErr(err)
}

var deleteAllScript = redis.NewScript(`
local tokens = redis.call('ZRANGE', KEYS[1], 0, -1)
for _, t in ipairs(tokens) do
	redis.call('DEL', ARGV[1] .. ':session:' .. t)
end
redis.call('DEL', KEYS[1])
return #tokens
`)

func (s *Sessions) DeleteAllByOwner(ctx context.Context, ownerID string) error {
	err := deleteAllScript.Run(ctx, s.rdb, []string{s.ownerKey(ownerID)}, s.prefix).Err()
	return wrapErr(err)
}

var extendScript = redis.NewScript(`
local expires = redis.call('HGET', KEYS[1], 'expires_at')
if not expires then
	return 0
end
local newexp = tonumber(expires) + tonumber(ARGV[1])
local owner = redis.call('HGET', KEYS[1], 'owner_id')
local token = redis.call('HGET', KEYS[1], 'token')
redis.call('HSET', KEYS[1], 'expires_at', newexp, 'updated_at', ARGV[2])
redis.call('PEXPIREAT', KEYS[1], newexp)
redis.call('ZADD', ARGV[3] .. ':owner:' .. owner, newexp, token)
return 1
`)

func (s *Sessions) ExtendExpiration(ctx context.Context, token string, by time.Duration) error {
	res, err := extendScript.Run(ctx, s.rdb,
		[]string{s.sessionKey(token)},
		by.Milliseconds(),
		time.Now().UTC().UnixMilli(),
		s.prefix,
	).Int()
	if err != nil {
		return wrapErr(err)
	}
	if res == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Sessions) CountActiveByOwner(ctx context.Context, ownerID string) (int, error) {
	now := strconv.FormatInt(time.Now().UTC().UnixMilli(), 10)

	count, err := s.rdb.ZCount(ctx, s.ownerKey(ownerID), "("+now, "+inf").Result()
	if err != nil {
		return 0, wrapErr(err)
	}
	return int(count), nil
}

// DeleteExpired prunes stale ZSET members. The session hashes themselves
// carry TTLs, so redis already drops those on its own.
func (s *Sessions) DeleteExpired(ctx context.Context) error {
	now := strconv.FormatInt(time.Now().UTC().UnixMilli(), 10)

	iter := s.rdb.Scan(ctx, 0, s.prefix+":owner:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.ZRemRangeByScore(ctx, iter.Val(), "-inf", now).Err(); err != nil {
			return wrapErr(err)
		}
	}
	return wrapErr(iter.Err())
}

func sessionFromFields(fields map[string]string) (domain.RefreshSession, error) {
	expiresAt, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return domain.RefreshSession{}, fmt.Errorf("redis: corrupt expires_at: %w", err)
	}
	createdAt, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return domain.RefreshSession{}, fmt.Errorf("redis: corrupt created_at: %w", err)
	}
	updatedAt, err := strconv.ParseInt(fields["updated_at"], 10, 64)
	if err != nil {
		return domain.RefreshSession{}, fmt.Errorf("redis: corrupt updated_at: %w", err)
	}

	return domain.RefreshSession{
		ID:         fields["id"],
		OwnerID:    fields["owner_id"],
		OwnerEmail: fields["owner_email"],
		Token:      fields["token"],
		ExpiresAt:  time.UnixMilli(expiresAt).UTC(),
		CreatedAt:  time.UnixMilli(createdAt).UTC(),
		UpdatedAt:  time.UnixMilli(updatedAt).UTC(),
	}, nil
}

// wrapErr marks connectivity failures as retryable. redis.Nil never
// reaches callers as-is; absence is decided on empty results instead.
func wrapErr(err error) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return nil
	}
	return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
}
