// internal/api/middleware.go
package api

import (
	"net/http"
	"strings"

	"hookmock/internal/config"
	"hookmock/internal/session"

	"github.com/gin-gonic/gin"
)

// APIKeyMiddleware enforces the binary allow/deny key check. The key is
// taken from the Authorization header (Bearer or ApiKey scheme), then
// X-API-Key, then the apiKey query parameter. The guard is a no-op
// unless auth is enabled or keys are configured.
func APIKeyMiddleware(cfg *config.Config) gin.HandlerFunc {
	keys := make(map[string]bool, len(cfg.Auth.Keys))
	for _, key := range cfg.Auth.Keys {
		keys[key] = true
	}

	return func(c *gin.Context) {
		if !cfg.AuthRequired() {
			c.Next()
			return
		}

		apiKey := extractAPIKey(c)
		if apiKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "authentication_required",
				"message": "API key required",
			})
			c.Abort()
			return
		}

		if !keys[apiKey] {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "authentication_required",
				"message": "Invalid API key",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func extractAPIKey(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 {
			scheme := strings.ToLower(parts[0])
			if scheme == "bearer" || scheme == "apikey" {
				return strings.TrimSpace(parts[1])
			}
		}
	}

	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}

	return c.Query("apiKey")
}

// SessionMiddleware resolves the anonymous session cookie, issuing one
// when it is absent or invalid, and stores the session id in the
// request context for the bucket handlers.
func SessionMiddleware(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Cookie(session.CookieName); err == nil {
			if sessionID, err := sessions.Parse(cookie); err == nil {
				c.Set("session_id", sessionID)
				c.Next()
				return
			}
		}

		sessionID, token, err := sessions.Issue()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "Failed to create session",
			})
			c.Abort()
			return
		}

		c.SetCookie(session.CookieName, token, 60*60*24*30, "/", "", false, true)
		c.Set("session_id", sessionID)
		c.Next()
	}
}
