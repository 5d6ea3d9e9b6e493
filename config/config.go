package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port     string // Service port
	LogLevel string // slog level

	DatabaseURL string // PostgreSQL connection string for the identity store

	TokenSecret   string        // Secret for signing session JWTs
	TokenIssuer   string        // JWT issuer claim
	TokenAudience string        // JWT audience claim
	TokenTTL      time.Duration // Session token validity window

	CacheTTL   time.Duration // Resolved-identity cache TTL
	CookieName string        // Session cookie name

	InternalSharedSecret string // Shared secret for /internal endpoints
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	config := &Config{
		Port:                 getEnv("PORT", "8990"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		TokenSecret:          getEnv("TOKEN_SECRET", ""),
		TokenIssuer:          getEnv("TOKEN_ISSUER", "skuunup-auth"),
		TokenAudience:        getEnv("TOKEN_AUDIENCE", "skuunup-app"),
		TokenTTL:             24 * time.Hour,
		CacheTTL:             5 * time.Second,
		CookieName:           getEnv("COOKIE_NAME", "skuunup_session"),
		InternalSharedSecret: getEnv("INTERNAL_SHARED_SECRET", ""),
	}

	// Parse TOKEN_TTL if provided
	if ttlStr := os.Getenv("TOKEN_TTL"); ttlStr != "" {
		duration, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL format: %w", err)
		}
		config.TokenTTL = duration
	}

	// Parse CACHE_TTL if provided
	if ttlStr := os.Getenv("CACHE_TTL"); ttlStr != "" {
		duration, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL format: %w", err)
		}
		config.CacheTTL = duration
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if len(c.TokenSecret) < 32 {
		return fmt.Errorf("TOKEN_SECRET must be at least 32 characters")
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}

	if c.CookieName == "" {
		return fmt.Errorf("COOKIE_NAME cannot be empty")
	}

	return nil
}

// IsProduction reports whether the service runs in a production environment.
// The session cookie's Secure flag is tied to this.
func IsProduction() bool {
	env := strings.ToLower(os.Getenv("GO_ENV"))
	return env == "production" || env == "prod"
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
