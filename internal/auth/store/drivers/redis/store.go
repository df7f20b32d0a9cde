package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spendtrack/auth/internal/auth/store"
)

// DefaultOpTimeout bounds every store call so a dead backend surfaces as
// store.ErrUnavailable instead of a hung request.
const DefaultOpTimeout = 3 * time.Second

// rotateScript is the atomic check-and-set behind Rotate. The stored id is
// swapped for the new one only when it still equals the id the caller read
// from the presented refresh token, with its remaining TTL preserved.
// Returns 1 on rotation, 0 on mismatch or missing key.
const rotateScript = `
local current = redis.call("GET", KEYS[1])
if not current or current ~= ARGV[1] then
  return 0
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl > 0 then
  redis.call("SET", KEYS[1], ARGV[2], "PX", ttl)
else
  redis.call("SET", KEYS[1], ARGV[2])
end
return 1
`

var rotateLua = redis.NewScript(rotateScript)

// Store is a Redis-backed session store. Each user maps to a single key
// holding the id of their currently-valid refresh token.
type Store struct {
	client    redis.UniversalClient
	prefix    string
	ttl       time.Duration
	opTimeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix overrides the key namespace (default "user-").
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithTTL bounds how long an untouched session record survives. Zero means
// no expiry; normally set to the refresh-token TTL so abandoned sessions
// disappear on their own.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithOpTimeout overrides the per-call deadline.
func WithOpTimeout(d time.Duration) Option {
	return func(s *Store) { s.opTimeout = d }
}

// NewStore creates a session store backed by the given Redis client. The
// caller keeps ownership of nothing: Close tears the client down.
func NewStore(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		client:    client,
		prefix:    "user-",
		opTimeout: DefaultOpTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(userID string) string {
	return s.prefix + userID
}

func (s *Store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

// Insert sets the stored token id for userID, overwriting any prior value.
func (s *Store) Insert(ctx context.Context, userID, tokenID string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.client.Set(ctx, s.key(userID), tokenID, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// Validate compares the stored token id for userID against tokenID. Missing
// record and differing value are the same failure: store.ErrSessionMismatch.
func (s *Store) Validate(ctx context.Context, userID, tokenID string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	stored, err := s.client.Get(ctx, s.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return store.ErrSessionMismatch
		}
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if stored != tokenID {
		return store.ErrSessionMismatch
	}
	return nil
}

// Rotate atomically swaps oldTokenID for newTokenID via a Lua script so that
// concurrent rotations on the same old id produce exactly one winner.
func (s *Store) Rotate(ctx context.Context, userID, oldTokenID, newTokenID string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := rotateLua.Run(ctx, s.client, []string{s.key(userID)}, oldTokenID, newTokenID).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if res != 1 {
		return store.ErrSessionMismatch
	}
	return nil
}

// Invalidate deletes the session record for userID. Idempotent.
func (s *Store) Invalidate(ctx context.Context, userID string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// Ping verifies the backend connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// Close releases the underlying Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
