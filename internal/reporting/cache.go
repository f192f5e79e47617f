package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DashboardCache holds pre-rendered default-window dashboards so the landing
// request does not fan out to the store on every hit. It is an optimization
// only: a miss or a cache failure falls back to computing from the store.
type DashboardCache interface {
	Get(ctx context.Context, orgID int64) (*Dashboard, bool, error)
	Set(ctx context.Context, orgID int64, d Dashboard, ttl time.Duration) error
}

// RedisDashboardCache stores dashboards in Redis with per-entry TTL.
type RedisDashboardCache struct {
	client *redis.Client
}

// NewRedisDashboardCache constructs a Redis-backed dashboard cache.
func NewRedisDashboardCache(client *redis.Client) *RedisDashboardCache {
	return &RedisDashboardCache{client: client}
}

func dashboardKey(orgID int64) string {
	return fmt.Sprintf("ballast:dashboard:org:%d", orgID)
}

// Get fetches the cached dashboard for an org, reporting a miss on absence.
func (c *RedisDashboardCache) Get(ctx context.Context, orgID int64) (*Dashboard, bool, error) {
	data, err := c.client.Get(ctx, dashboardKey(orgID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reporting: cache get: %w", err)
	}
	var d Dashboard
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, false, fmt.Errorf("reporting: cache decode: %w", err)
	}
	return &d, true, nil
}

// Set stores the dashboard for an org with the given TTL.
func (c *RedisDashboardCache) Set(ctx context.Context, orgID int64, d Dashboard, ttl time.Duration) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("reporting: cache encode: %w", err)
	}
	if err := c.client.Set(ctx, dashboardKey(orgID), data, ttl).Err(); err != nil {
		return fmt.Errorf("reporting: cache set: %w", err)
	}
	return nil
}

var _ DashboardCache = (*RedisDashboardCache)(nil)
