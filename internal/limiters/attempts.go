package limiters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrAttemptsUnavailable indicates the counter backend is unreachable.
var ErrAttemptsUnavailable = errors.New("attempt counter backend unavailable")

// AttemptConfig tunes the failed-login counter.
type AttemptConfig struct {
	Window time.Duration
	Prefix string
}

// AttemptLimiter counts failed login attempts per client fingerprint.
// The window slides: every increment re-arms the TTL, so a client that
// keeps failing never ages out of lockout mid-streak.
type AttemptLimiter struct {
	redis  redis.UniversalClient
	config AttemptConfig
}

// NewAttemptLimiter creates an attempt limiter backed by the given Redis
// client.
func NewAttemptLimiter(redisClient redis.UniversalClient, cfg AttemptConfig) *AttemptLimiter {
	return &AttemptLimiter{redis: redisClient, config: cfg}
}

func (l *AttemptLimiter) key(fingerprint string) string {
	return l.config.Prefix + ":la:" + fingerprint
}

// Get returns the current failure count for the fingerprint, 0 when absent.
func (l *AttemptLimiter) Get(ctx context.Context, fingerprint string) (int, error) {
	count, err := l.redis.Get(ctx, l.key(fingerprint)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAttemptsUnavailable, err)
	}
	return count, nil
}

// Increment records one failed attempt and re-arms the window TTL.
func (l *AttemptLimiter) Increment(ctx context.Context, fingerprint string) error {
	pipe := l.redis.TxPipeline()
	pipe.Incr(ctx, l.key(fingerprint))
	pipe.Expire(ctx, l.key(fingerprint), l.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrAttemptsUnavailable, err)
	}
	return nil
}

// Reset clears the counter for the fingerprint.
func (l *AttemptLimiter) Reset(ctx context.Context, fingerprint string) error {
	if err := l.redis.Del(ctx, l.key(fingerprint)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrAttemptsUnavailable, err)
	}
	return nil
}

// Remaining reports how long the current lockout window has left. Zero when
// no counter exists.
func (l *AttemptLimiter) Remaining(ctx context.Context, fingerprint string) (time.Duration, error) {
	ttl, err := l.redis.TTL(ctx, l.key(fingerprint)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAttemptsUnavailable, err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
