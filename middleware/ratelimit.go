package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/ariebrainware/tutorclass/config"
	"github.com/ariebrainware/tutorclass/util"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	// Rate limiting defaults
	defaultRateLimit  = 10          // 10 requests
	defaultRateWindow = time.Minute // per minute
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

func rateLimitKey(endpoint, clientIP string) string {
	return fmt.Sprintf("ratelimit:%s:%s", endpoint, clientIP)
}

// RateLimiter creates a rate limiting middleware keyed on client IP and path.
// Requests are allowed when Redis is unavailable or failing.
func RateLimiter(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limit == 0 {
		cfg.Limit = defaultRateLimit
	}
	if cfg.Window == 0 {
		cfg.Window = defaultRateWindow
	}

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		endpoint := c.Request.URL.Path

		allowed, err := checkRateLimit(c.Request.Context(), rateLimitKey(endpoint, clientIP), cfg.Limit, cfg.Window)
		if err != nil {
			util.Log.WithError(err).WithField("ip", clientIP).Warn("rate limit check failed")
			c.Next()
			return
		}

		if !allowed {
			util.Log.WithFields(logrus.Fields{"ip": clientIP, "path": endpoint}).Warn("rate limit exceeded")
			util.CallTooManyRequests(c, util.APIErrorParams{
				Msg: "Too many requests. Please try again later.",
				Err: fmt.Errorf("rate limit exceeded"),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// checkRateLimit counts the request in a fixed window that starts with the
// first request for key. Returns true if allowed, false if the limit is exceeded.
func checkRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return true, nil
	}

	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if count == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			// a counter without TTL would block the client for good
			_ = rdb.Del(ctx, key).Err()
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count <= int64(limit), nil
}
