package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gotours/internal/apperrors"
	"gotours/internal/utils"
	"gotours/pkg/logger"
)

// RateLimitStore is the counter backend of the rate limiter.
// Implemented by pkg/cache.RedisCache.
type RateLimitStore interface {
	Increment(ctx context.Context, key string) (int64, error)
	SetExpire(ctx context.Context, key string, ttl time.Duration) error
	GetTTL(ctx context.Context, key string) (time.Duration, error)
}

// RateLimit enforces a fixed-window request budget per client IP. The
// window opens on the first request and the count resets when the key
// expires. If the store is unreachable the request is let through.
func RateLimit(store RateLimitStore, log *logger.Logger, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := utils.CacheRateLimitPrefix + clientKey(c)
		ctx := c.Request.Context()

		count, err := store.Increment(ctx, key)
		if err != nil {
			log.WithError(err).Warn("rate limit store unavailable, skipping")
			c.Next()
			return
		}
		if count == 1 {
			if err := store.SetExpire(ctx, key, window); err != nil {
				log.WithError(err).Warn("failed to set rate limit window")
			}
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(limit) {
			retryAfter := window
			if ttl, err := store.GetTTL(ctx, key); err == nil && ttl > 0 {
				retryAfter = ttl
			}
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))

			abortWith(c, apperrors.New(429, fmt.Sprintf(
				"Too many requests from this IP, please try again in %s", retryAfter.Round(time.Second))))
			return
		}

		c.Next()
	}
}
