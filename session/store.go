package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport-level Redis failures.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Logout blacklists the access token and deletes the sso key atomically.
// SET with EX keeps the blacklist entry alive exactly as long as the token
// class it rejects. Idempotent: re-running on an absent session is a no-op
// beyond refreshing the blacklist TTL.
const logoutScript = `
redis.call("SET", KEYS[1], "1", "EX", ARGV[1])
return redis.call("DEL", KEYS[2])
`

var logoutLua = redis.NewScript(logoutScript)

// Store tracks per-user sso keys and the token blacklist.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a session store using the given key prefix.
func NewStore(redisClient redis.UniversalClient, prefix string) *Store {
	return &Store{redis: redisClient, prefix: prefix}
}

func (s *Store) ssoKey(userID int64) string {
	return s.prefix + ":sso:" + strconv.FormatInt(userID, 10)
}

func (s *Store) blacklistKey(token string) string {
	return s.prefix + ":bl:" + token
}

// Save records token as the authoritative session for userID, overwriting
// any prior session. The TTL bounds how long the session stays refreshable;
// callers pass the refresh-token lifetime.
func (s *Store) Save(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, s.ssoKey(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Current returns the authoritative access token for userID, or "" when no
// session exists.
func (s *Store) Current(ctx context.Context, userID int64) (string, error) {
	value, err := s.redis.Get(ctx, s.ssoKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return value, nil
}

// IsBlacklisted reports whether token was explicitly revoked.
func (s *Store) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.blacklistKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}

// Logout revokes token and clears the sso key for userID in one script.
// blacklistTTL is the access-token lifetime; after that the token is dead
// on expiry alone and the entry may lapse.
func (s *Store) Logout(ctx context.Context, userID int64, token string, blacklistTTL time.Duration) error {
	seconds := int64(blacklistTTL / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	keys := []string{s.blacklistKey(token), s.ssoKey(userID)}
	if err := logoutLua.Run(ctx, s.redis, keys, seconds).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
