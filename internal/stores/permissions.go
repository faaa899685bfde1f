package stores

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrPermissionCacheUnavailable indicates the cache backend is unreachable.
var ErrPermissionCacheUnavailable = errors.New("permission cache backend unavailable")

// PermissionCache holds the resolved permission-code set per user. It is an
// accelerator only: consumers must recompute from the credential store when
// the set is absent, so TTL expiry and out-of-band invalidation are always
// safe.
type PermissionCache struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewPermissionCache creates a permission cache with the given entry TTL.
// The TTL is expected to match the access-token lifetime.
func NewPermissionCache(redisClient redis.UniversalClient, prefix string, ttl time.Duration) *PermissionCache {
	return &PermissionCache{redis: redisClient, prefix: prefix, ttl: ttl}
}

func (c *PermissionCache) key(userID int64) string {
	return c.prefix + ":perm:" + strconv.FormatInt(userID, 10)
}

// Replace swaps the cached set for userID with codes. An empty codes list
// clears the entry instead of caching emptiness.
func (c *PermissionCache) Replace(ctx context.Context, userID int64, codes []string) error {
	key := c.key(userID)
	if len(codes) == 0 {
		return c.Invalidate(ctx, userID)
	}

	members := make([]interface{}, len(codes))
	for i, code := range codes {
		members[i] = code
	}

	pipe := c.redis.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionCacheUnavailable, err)
	}
	return nil
}

// Members returns the cached code set for userID. An absent entry reads as
// an empty slice.
func (c *PermissionCache) Members(ctx context.Context, userID int64) ([]string, error) {
	members, err := c.redis.SMembers(ctx, c.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPermissionCacheUnavailable, err)
	}
	return members, nil
}

// Invalidate drops the cached set for userID. Called when the user's roles
// or any reachable permission change.
func (c *PermissionCache) Invalidate(ctx context.Context, userID int64) error {
	if err := c.redis.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionCacheUnavailable, err)
	}
	return nil
}
