// middleware/rate_limiter.go

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/permy/db"
	logger "github.com/dev-mohitbeniwal/permy/logging"
	"github.com/dev-mohitbeniwal/permy/util"
)

// LimitFunc reports whether one more request under key fits the window.
type LimitFunc func(ctx context.Context, key string, limit int, per time.Duration) (bool, error)

// RedisLimit counts requests in a Redis sliding window.
func RedisLimit(client redis.Cmdable) LimitFunc {
	return func(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
		return db.RateLimit(ctx, client, key, limit, per)
	}
}

// RateLimiter keys requests by subject when authenticated, else by client IP.
// A failing limiter lets the request through.
func RateLimiter(limit int, per time.Duration, allow LimitFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if subjectID, ok := util.GetSubjectIDFromContext(c); ok {
			key = "subject:" + subjectID
		}

		allowed, err := allow(c, key, limit, per)
		if err != nil {
			logger.Error("Rate limiting failed", zap.Error(err), zap.String("key", key))
			c.Next()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Duration", per.String())

		if !allowed {
			logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.Int("limit", limit),
				zap.Duration("per", per))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}
