// internal/api/middleware/ratelimit.go
package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"hookmock/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware applies the fixed-window limiter keyed by client
// IP. Quota headers are attached on every response, allowed or not.
func RateLimitMiddleware(rl ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := rl.Allow("ip:" + ClientIP(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "Rate limit check failed",
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.Reset.Unix()))

		if !result.Allowed {
			retryAfter := int(time.Until(result.Reset).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":      "rate_limited",
				"message":    "Rate limit exceeded",
				"retryAfter": retryAfter,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ClientIP derives the rate-limit key from proxy headers. Requests
// carrying neither header share one "unknown" bucket.
func ClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx > 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return "unknown"
}
