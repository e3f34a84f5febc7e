package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService provides high-level caching for valuation results. Entries
// are invalidated when a user's holdings change and after every ingestion
// run, so a stale read never outlives the data that produced it by more
// than the TTL.
type CacheService struct {
	redis *RedisCache
	ttl   time.Duration
}

// NewCacheService creates a new cache service
func NewCacheService(redis *RedisCache, ttl time.Duration) *CacheService {
	return &CacheService{
		redis: redis,
		ttl:   ttl,
	}
}

// CacheKeyType represents different types of cache keys
type CacheKeyType string

const (
	// CacheKeyAnalytics is for full analytics responses
	CacheKeyAnalytics CacheKeyType = "analytics"
	// CacheKeySnapshot is for point-in-time portfolio snapshots
	CacheKeySnapshot CacheKeyType = "snapshot"
)

// GenerateCacheKey generates a cache key for a given type and parameters.
// Format: <type>:<param1>:<param2>:...
func (c *CacheService) GenerateCacheKey(keyType CacheKeyType, params ...string) string {
	normalizedParams := make([]string, len(params))
	for i, param := range params {
		normalizedParams[i] = strings.ToLower(param)
	}

	parts := append([]string{string(keyType)}, normalizedParams...)
	return strings.Join(parts, ":")
}

// GenerateAnalyticsKey generates a cache key for a user's analytics on a date.
// Format: analytics:<user-id>:<date>
func (c *CacheService) GenerateAnalyticsKey(userID string, date time.Time) string {
	return c.GenerateCacheKey(CacheKeyAnalytics, userID, date.Format("2006-01-02"))
}

// GenerateSnapshotKey generates a cache key for a user's snapshot on a date.
// Format: snapshot:<user-id>:<date>
func (c *CacheService) GenerateSnapshotKey(userID string, date time.Time) string {
	return c.GenerateCacheKey(CacheKeySnapshot, userID, date.Format("2006-01-02"))
}

// Set stores a value in cache with the configured TTL
func (c *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.redis.Set(ctx, key, data, c.ttl)
}

// Get retrieves a value from cache and deserializes it. The boolean return
// reports whether the key was present.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.redis.Get(ctx, key)
	if err != nil {
		// Key not found is not an error, just a cache miss
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get from cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}

	return true, nil
}

// InvalidateUser removes all cached valuations for one user
func (c *CacheService) InvalidateUser(ctx context.Context, userID string) error {
	return c.invalidatePattern(ctx,
		c.GenerateCacheKey(CacheKeyAnalytics, userID)+":*",
		c.GenerateCacheKey(CacheKeySnapshot, userID)+":*",
	)
}

// InvalidateAll removes all cached valuations. Called after an ingestion
// run rewrites the price series.
func (c *CacheService) InvalidateAll(ctx context.Context) error {
	return c.invalidatePattern(ctx,
		string(CacheKeyAnalytics)+":*",
		string(CacheKeySnapshot)+":*",
	)
}

func (c *CacheService) invalidatePattern(ctx context.Context, patterns ...string) error {
	for _, pattern := range patterns {
		keys, err := c.redis.Keys(ctx, pattern)
		if err != nil {
			return fmt.Errorf("failed to list cache keys: %w", err)
		}
		if len(keys) == 0 {
			continue
		}
		if err := c.redis.Del(ctx, keys...); err != nil {
			return fmt.Errorf("failed to delete cache keys: %w", err)
		}
	}
	return nil
}
