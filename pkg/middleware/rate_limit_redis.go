package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/studentcatalog/catalog-web/pkg/logger"
	"github.com/studentcatalog/catalog-web/pkg/metrics"
)

// RedisRateLimitMiddleware is a fixed-window limiter shared by every
// replica. Each window admits floor(rps*window)+burst requests per
// session (or client IP). A nil client falls back to the in-memory limiter.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	if window < time.Second {
		window = time.Second
	}
	secs := int64(window / time.Second)
	limit := int64(rps*float64(secs)) + int64(burst)
	retryAfter := strconv.FormatInt(secs, 10)

	return func(c *gin.Context) {
		slot := time.Now().Unix() / secs
		key := rateKey(c, "rl:") + ":" + strconv.FormatInt(slot, 10)

		ctx := c.Request.Context()
		var hits *redis.IntCmd
		_, err := client.TxPipelined(ctx, func(p redis.Pipeliner) error {
			hits = p.Incr(ctx, key)
			p.Expire(ctx, key, window+time.Second)
			return nil
		})
		if err != nil {
			logger.Errorf("rate limit: redis window %s: %v", key, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
			return
		}
		if hits.Val() > limit {
			c.Header("Retry-After", retryAfter)
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
