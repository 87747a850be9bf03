package mongodb

import (
	"context"
	"time"
)

// CacheService is the subset of cache operations the repositories use.
// Implemented by pkg/cache.RedisCache.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
