// internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"hookmock/internal/constants"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Capture   CaptureConfig
	Session   SessionConfig
	Env       string
}

type ServerConfig struct {
	Port string
}

type StorageConfig struct {
	// Backend selects the storage implementation: "memory" or "mysql".
	Backend    string
	MaxRecords int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type AuthConfig struct {
	// Enabled turns the API-key guard on. The guard is also enabled
	// implicitly whenever Keys is non-empty.
	Enabled bool
	Keys    []string
}

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// RedisURL switches the limiter to the redis backend when set.
	RedisURL string
}

type CaptureConfig struct {
	MaxJSONBody         int64
	MaxTextBody         int64
	MaxFormBody         int64
	MaxTimeoutSeconds   int
	MaxConcurrentDelays int
}

type SessionConfig struct {
	Secret string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Storage: StorageConfig{
			Backend:    getEnv("STORAGE_BACKEND", "memory"),
			MaxRecords: getEnvInt("MAX_LOG_RECORDS", constants.DefaultMaxRecords),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", ""),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "hookmock"),
		},
		Auth: AuthConfig{
			Enabled: getEnvBool("AUTH_ENABLED", false),
			Keys:    getEnvList("API_KEYS"),
		},
		RateLimit: RateLimitConfig{
			Limit:    getEnvInt("RATE_LIMIT", constants.DefaultRateLimit),
			Window:   time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", int(constants.DefaultRateWindow.Seconds()))) * time.Second,
			RedisURL: getEnv("REDIS_URL", ""),
		},
		Capture: CaptureConfig{
			MaxJSONBody:         int64(getEnvInt("MAX_JSON_BODY_BYTES", constants.DefaultMaxJSONBody)),
			MaxTextBody:         int64(getEnvInt("MAX_TEXT_BODY_BYTES", constants.DefaultMaxTextBody)),
			MaxFormBody:         int64(getEnvInt("MAX_FORM_BODY_BYTES", constants.DefaultMaxFormBody)),
			MaxTimeoutSeconds:   getEnvInt("MAX_TIMEOUT_SECONDS", constants.DefaultMaxTimeoutSeconds),
			MaxConcurrentDelays: getEnvInt("MAX_CONCURRENT_TIMEOUTS", constants.DefaultMaxConcurrentDelays),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "hookmock-dev-secret"),
		},
		Env: getEnv("ENVIRONMENT", "development"),
	}

	return config, nil
}

// AuthRequired reports whether the API-key guard should run.
func (c *Config) AuthRequired() bool {
	return c.Auth.Enabled || len(c.Auth.Keys) > 0
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer for %s: %q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvList(key string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
