// internal/api/routes.go
package api

import (
	"hookmock/internal/api/handlers"
	"hookmock/internal/api/middleware"
	"hookmock/internal/config"
	"hookmock/internal/constants"
	"hookmock/internal/ratelimit"
	"hookmock/internal/session"
	"hookmock/internal/storage"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRouter(store storage.Store, cfg *config.Config, rl ratelimit.Limiter, sessions *session.Manager) *gin.Engine {
	router := gin.Default()
	h := handlers.NewHandler(store, cfg, rl, sessions)

	router.GET("/", h.Home)

	//Swagger Route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Open utility routes (exempt from the API-key guard)
	router.GET("/placeholder/:width/:height", h.Placeholder)
	router.GET("/session", SessionMiddleware(sessions), h.GetSession)

	// Capture entry point: guards run in order, auth before rate limit
	capture := router.Group(constants.WebhookNamespace)
	capture.Use(APIKeyMiddleware(cfg), middleware.RateLimitMiddleware(rl))
	{
		// The bare namespace path must capture directly, not via
		// gin's trailing-slash redirect.
		capture.Any("", h.HandleWebhook)
		capture.Any("/*path", h.HandleWebhook)
	}

	// Dashboard/management endpoints (requires API key when enabled)
	api := router.Group("/api")
	api.Use(APIKeyMiddleware(cfg))
	{
		api.GET("/logs", h.ListLogs)        // List or paginate captured requests
		api.DELETE("/logs", h.ClearLogs)    // Clear all logs (optionally by webhook)
		api.GET("/logs/:id", h.GetLog)      // Get one captured request
		api.DELETE("/logs/:id", h.DeleteLog) // Delete one captured request
		api.POST("/search", h.SearchLogs)   // Search captured requests
		api.GET("/analytics", h.GetAnalytics)
		api.POST("/test", h.HandleTest) // replay / compare / validate

		// Named webhook buckets, scoped to the anonymous session
		webhooks := api.Group("/webhooks")
		webhooks.Use(SessionMiddleware(sessions))
		{
			webhooks.POST("", h.CreateWebhook)
			webhooks.GET("", h.ListWebhooks)
			webhooks.DELETE("", h.DeleteWebhook)
		}
	}

	return router
}
