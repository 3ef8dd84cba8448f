// cmd/server/main.go
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	_ "hookmock/docs" // Required for Swagger
	"hookmock/internal/api"
	"hookmock/internal/config"
	"hookmock/internal/ratelimit"
	"hookmock/internal/session"
	"hookmock/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title           Hookmock API
// @version         1.0
// @description     Mock webhook service for capturing, inspecting, replaying and comparing HTTP requests

// @BasePath  /

// @securityDefinitions.apikey  ApiKeyAuth
// @in                         header
// @name                       X-API-Key
func main() {

	gin.SetMode(gin.ReleaseMode)

	f, _ := os.Create("gin.log")
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := storage.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	var rateLimiter ratelimit.Limiter
	if cfg.RateLimit.RedisURL != "" {
		rateLimiter, err = ratelimit.NewRedisLimiter(cfg.RateLimit.RedisURL, cfg.RateLimit.Limit, cfg.RateLimit.Window)
		if err != nil {
			log.Fatalf("Failed to initialize rate limiter: %v", err)
		}
	} else {
		rateLimiter = ratelimit.NewFixedWindowLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window)
	}
	defer rateLimiter.Close()

	sessions := session.NewManager(cfg.Session.Secret)

	// Set up and start the server
	router := api.SetupRouter(store, cfg, rateLimiter, sessions)

	serverAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	if cfg.Env == "development" {
		log.Printf("Server starting on http://localhost%s", serverAddr)
		log.Printf("Swagger UI available at http://localhost%s/swagger/index.html", serverAddr)
	}

	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
