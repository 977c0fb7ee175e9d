package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/csmentors/scheduler-api/pkg/errors"
)

// Cache key helpers. Occupancy entries are invalidated on every enroll and
// drop touching the section.
func PresenceCodesCacheKey() string { return "scheduler:presence_codes" }
func OccupancyCacheKey(sectionID string) string {
	return fmt.Sprintf("scheduler:occupancy:%s", sectionID)
}

// cacheObserver counts cache accesses for the scrape endpoint.
type cacheObserver interface {
	RecordCacheOperation(operation, outcome string)
}

// CacheRepository wraps Redis for read-side caching of catalog data.
type CacheRepository struct {
	client  *redis.Client
	logger  *zap.Logger
	metrics cacheObserver
}

// NewCacheRepository constructs a cache repository. A nil client degrades
// every lookup to a miss, so the service remains usable without Redis.
func NewCacheRepository(client *redis.Client, logger *zap.Logger) *CacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheRepository{client: client, logger: logger}
}

// Observe attaches a metrics sink for cache hit/miss counting.
func (r *CacheRepository) Observe(metrics cacheObserver) {
	r.metrics = metrics
}

func (r *CacheRepository) record(operation, outcome string) {
	if r.metrics != nil {
		r.metrics.RecordCacheOperation(operation, outcome)
	}
}

// Get retrieves and unmarshals the cached value into dest.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		r.record("get", "miss")
		return appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			r.record("get", "miss")
			return appErrors.ErrCacheMiss
		}
		r.record("get", "error")
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		r.record("get", "error")
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}

	r.record("get", "hit")
	return nil
}

// Set marshals the value and stores it with the given TTL.
func (r *CacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		r.record("set", "error")
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	r.record("set", "ok")
	return nil
}

// Delete drops a single cached entry.
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.record("delete", "error")
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	r.record("delete", "ok")
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *CacheRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
