package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// Cache is the injectable read-through cache in front of the organization
// lookup. It is an optimization only: resolution must stay correct with the
// cache disabled, so no caller may treat it as the source of truth.
type Cache interface {
	Get(ctx context.Context, userID int64) (*shared.Organization, bool, error)
	Set(ctx context.Context, userID int64, org *shared.Organization, ttl time.Duration) error
	Delete(ctx context.Context, userID int64) error
}

// RedisCache stores organization entries in Redis with per-entry TTL.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache constructs a Redis-backed organization cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func cacheKey(userID int64) string {
	return fmt.Sprintf("ballast:org:user:%d", userID)
}

// Get fetches the cached organization for a user, reporting a miss on absence.
func (c *RedisCache) Get(ctx context.Context, userID int64) (*shared.Organization, bool, error) {
	data, err := c.client.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("tenant: cache get: %w", err)
	}
	var org shared.Organization
	if err := json.Unmarshal(data, &org); err != nil {
		return nil, false, fmt.Errorf("tenant: cache decode: %w", err)
	}
	return &org, true, nil
}

// Set stores the organization for a user with the given TTL.
func (c *RedisCache) Set(ctx context.Context, userID int64, org *shared.Organization, ttl time.Duration) error {
	data, err := json.Marshal(org)
	if err != nil {
		return fmt.Errorf("tenant: cache encode: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("tenant: cache set: %w", err)
	}
	return nil
}

// Delete removes the cached entry for a user.
func (c *RedisCache) Delete(ctx context.Context, userID int64) error {
	if err := c.client.Del(ctx, cacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("tenant: cache delete: %w", err)
	}
	return nil
}

var _ Cache = (*RedisCache)(nil)
