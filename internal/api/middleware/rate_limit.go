package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"poll-service/internal/cache"
	"poll-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type RateLimitMiddleware struct {
	limiter cache.WindowLimiter
}

func NewRateLimitMiddleware(limiter cache.WindowLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
	}
}

// RateLimitIP throttles login attempts per client IP over a sliding window.
func (rm *RateLimitMiddleware) RateLimitIP(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		key := cache.LoginLimitKey(clientIP)

		allowed, err := rm.limiter.SlidingWindowAllow(c.Request.Context(), key, requests, window)
		if err != nil {
			slog.Error("Rate limit check failed", "clientIP", clientIP, "path", c.FullPath(), "error", err)
			abort(c, http.StatusServiceUnavailable, response.ErrCodeUnavailable)
			return
		}

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			abort(c, http.StatusTooManyRequests, response.AuthLoginThrottle)
			return
		}

		c.Next()
	}
}
