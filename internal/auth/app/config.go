package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/spendtrack/auth/pkg/jwtx"
)

type Config struct {
	Issuer    string // Issuer claim for tokens
	JWTSecret string // Required: HS256 signing secret

	AccessTokenTTL  time.Duration // Access-token lifetime (default: 15m)
	RefreshTokenTTL time.Duration // Refresh-token lifetime (default: 168h)

	RedisHost        string        // Session store host (default: localhost)
	RedisPort        int           // Session store port (default: 6379)
	SessionKeyPrefix string        // Redis key namespace (default: "user-")
	StoreOpTimeout   time.Duration // Per-call store deadline (default: 3s)

	// Optional dev seed account so the service is usable standalone.
	SeedEmail    string
	SeedPassword string
	SeedName     string

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// ErrMissingSecret reports that AUTH_JWT_SECRET is unset.
var ErrMissingSecret = errors.New("app: AUTH_JWT_SECRET must be set")

func LoadConfig() Config {
	cfg := Config{
		Issuer:    getEnvOrDefault("AUTH_ISSUER", "spendtrack-auth"),
		JWTSecret: os.Getenv("AUTH_JWT_SECRET"),

		AccessTokenTTL:  getEnvDurationOrDefault("AUTH_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL: getEnvDurationOrDefault("AUTH_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),

		RedisHost:        getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:        getEnvIntOrDefault("REDIS_PORT", 6379),
		SessionKeyPrefix: getEnvOrDefault("SESSION_KEY_PREFIX", "user-"),
		StoreOpTimeout:   getEnvDurationOrDefault("STORE_OP_TIMEOUT", 3*time.Second),

		SeedEmail:    os.Getenv("AUTH_SEED_EMAIL"),
		SeedPassword: os.Getenv("AUTH_SEED_PASSWORD"),
		SeedName:     getEnvOrDefault("AUTH_SEED_NAME", "Seed User"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

// Validate rejects configurations the service cannot safely start with.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
