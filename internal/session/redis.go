package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/benjamintzh/KNY/internal/domain"
)

const (
	sessionKeyPrefix   = "kyn:session:"
	principalKeyPrefix = "kyn:principal:"
)

// createScript installs the new session and evicts the principal's prior one
// in a single atomic step, so two concurrent logins for the same principal
// can never both survive: the last script to run wins.
var createScript = redis.NewScript(`
local prev = redis.call("GET", KEYS[1])
if prev then
	redis.call("DEL", ARGV[1] .. prev)
end
redis.call("HSET", KEYS[2],
	"email", ARGV[3],
	"name", ARGV[4],
	"created_at", ARGV[5],
	"last_accessed_at", ARGV[5],
	"expires_at", ARGV[6])
redis.call("PEXPIRE", KEYS[2], ARGV[7])
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[7])
return 1
`)

// touchScript slides the expiry window. The existence check keeps a touch
// racing an eviction or invalidation from recreating the deleted key as a
// partial hash; when the session is gone the touch is a no-op and the lookup
// reports absent.
var touchScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], "last_accessed_at", ARGV[1], "expires_at", ARGV[2])
redis.call("PEXPIRE", KEYS[1], ARGV[3])
redis.call("PEXPIRE", KEYS[2], ARGV[3])
return 1
`)

// invalidateScript removes the session and, only when the principal pointer
// still names this session id, the pointer too. A pointer already replaced by
// a newer login is left alone.
var invalidateScript = redis.NewScript(`
local email = redis.call("HGET", KEYS[1], "email")
if not email then
	return 0
end
redis.call("DEL", KEYS[1])
local current = redis.call("GET", ARGV[1] .. email)
if current == ARGV[2] then
	redis.call("DEL", ARGV[1] .. email)
end
return 1
`)

var invalidateAllScript = redis.NewScript(`
local id = redis.call("GET", KEYS[1])
if not id then
	return 0
end
redis.call("DEL", ARGV[1] .. id)
redis.call("DEL", KEYS[1])
return 1
`)

// RedisStore keeps sessions in Redis so multiple server instances can share
// one session registry. Every mutation runs as a Lua script, which is what
// serializes concurrent creates, touches, and invalidations for the same
// principal. Key TTLs mirror the idle window, but expiry is still checked
// against the stored timestamp at lookup time.
type RedisStore struct {
	client      *redis.Client
	idleTimeout time.Duration
	now         func() time.Time
}

func NewRedisStore(client *redis.Client, idleTimeout time.Duration) *RedisStore {
	return &RedisStore{
		client:      client,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

func (s *RedisStore) Create(ctx context.Context, principal domain.Principal) (*Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(s.idleTimeout)

	keys := []string{principalKey(principal.Email), sessionKey(id)}
	argv := []interface{}{
		sessionKeyPrefix,
		id,
		principal.Email,
		principal.Name,
		now.UnixMilli(),
		expiresAt.UnixMilli(),
		s.idleTimeout.Milliseconds(),
	}

	if err := createScript.Run(ctx, s.client, keys, argv...).Err(); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &Session{
		ID:             id,
		Email:          principal.Email,
		Name:           principal.Name,
		CreatedAt:      now,
		LastAccessedAt: now,
		ExpiresAt:      expiresAt,
	}, nil
}

func (s *RedisStore) Lookup(ctx context.Context, id string) (*Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	sess, err := sessionFromFields(id, fields)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if now.After(sess.ExpiresAt) {
		_ = s.Invalidate(ctx, id)
		return nil, ErrNotFound
	}

	sess.LastAccessedAt = now
	sess.ExpiresAt = now.Add(s.idleTimeout)

	touched, err := touchScript.Run(ctx, s.client,
		[]string{sessionKey(id), principalKey(sess.Email)},
		now.UnixMilli(), sess.ExpiresAt.UnixMilli(), s.idleTimeout.Milliseconds(),
	).Int()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}
	if touched == 0 {
		// Evicted or invalidated between the read and the touch.
		return nil, ErrNotFound
	}

	return sess, nil
}

func (s *RedisStore) Invalidate(ctx context.Context, id string) error {
	err := invalidateScript.Run(ctx, s.client,
		[]string{sessionKey(id)}, principalKeyPrefix, id,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}
	return nil
}

func (s *RedisStore) InvalidateAllFor(ctx context.Context, email string) error {
	err := invalidateAllScript.Run(ctx, s.client,
		[]string{principalKey(email)}, sessionKeyPrefix,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to invalidate sessions: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func principalKey(email string) string {
	return principalKeyPrefix + email
}

func sessionFromFields(id string, fields map[string]string) (*Session, error) {
	createdAt, err := parseMillis(fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("corrupt session record: %w", err)
	}
	lastAccessedAt, err := parseMillis(fields["last_accessed_at"])
	if err != nil {
		return nil, fmt.Errorf("corrupt session record: %w", err)
	}
	expiresAt, err := parseMillis(fields["expires_at"])
	if err != nil {
		return nil, fmt.Errorf("corrupt session record: %w", err)
	}

	return &Session{
		ID:             id,
		Email:          fields["email"],
		Name:           fields["name"],
		CreatedAt:      createdAt,
		LastAccessedAt: lastAccessedAt,
		ExpiresAt:      expiresAt,
	}, nil
}

func parseMillis(value string) (time.Time, error) {
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}
