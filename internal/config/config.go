// Package config provides configuration management for the rate-gate admission
// layer. It handles loading configuration from environment variables with
// sensible defaults and validates the configuration to ensure the process
// refuses to start with a policy that would silently disable rate limiting.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - LIVENESS_PATH: Path excluded from counting when the probe succeeds (default: /health)
//
// Redis Configuration (shared counter store):
//   - REDIS_ADDRESS: Redis server address; empty selects in-process counters
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 0)
//   - REDIS_POOL_SIZE: Redis connection pool size (default: 10)
//
// Identity:
//   - JWT_SECRET: HMAC secret for the bearer-token identity middleware
//     (optional; empty disables identity extraction, all callers are treated
//     as anonymous; minimum 32 characters when set)
//
// Rate Limiting Tiers:
//   - RATE_LIMIT_GENERAL_WINDOW / RATE_LIMIT_GENERAL_MAX: general tier (default: 15m / 100)
//   - RATE_LIMIT_AUTH_WINDOW / RATE_LIMIT_AUTH_MAX: auth tier (default: 15m / 5)
//   - RATE_LIMIT_READ_WINDOW / RATE_LIMIT_READ_MAX: read tier (default: 15m / 300)
//   - RATE_LIMIT_WRITE_WINDOW / RATE_LIMIT_WRITE_MAX: write tier (default: 15m / 60)
//   - RATE_LIMIT_AUTH_MULTIPLIER: ceiling multiplier for authenticated callers
//     on the general/read/write tiers (default: 2; the auth tier never boosts)
//
// Example usage:
//
//	cfg := config.Load()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
package config

import (
	"os"
	"strconv"
	"time"

	"rate-gate/internal/common/errors"
)

// Config holds all configuration values for the admission layer.
// Load it with Load() and check it with Validate() before use.
type Config struct {
	// Application settings
	Port         string // Server port number
	LogLevel     string // Logging level (debug, info, warn, error)
	LivenessPath string // Liveness probe path excluded from counting on success

	// Redis configuration for the shared counter store
	RedisAddress  string // Redis server address (host:port); empty = local counters
	RedisPassword string // Redis authentication password
	RedisDB       int    // Redis database number (0-15)
	RedisPoolSize int    // Redis connection pool size

	// Identity configuration
	JWTSecret string // HMAC secret for bearer-token identity extraction (optional)

	// Tier ceilings and windows
	GeneralWindow time.Duration // Counting window for the general tier
	GeneralMax    int           // Anonymous ceiling for the general tier
	AuthWindow    time.Duration // Counting window for the auth tier
	AuthMax       int           // Ceiling for the auth tier (applies to everyone)
	ReadWindow    time.Duration // Counting window for the read tier
	ReadMax       int           // Anonymous ceiling for the read tier
	WriteWindow   time.Duration // Counting window for the write tier
	WriteMax      int           // Anonymous ceiling for the write tier

	// AuthMultiplier scales the general/read/write ceilings for callers
	// carrying a verified identity. 1 means no boost.
	AuthMultiplier int
}

// Load creates a new Config instance with values loaded from environment
// variables, falling back to defaults for anything unset. Call Validate()
// on the result before using it.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LivenessPath: getEnv("LIVENESS_PATH", "/health"),

		RedisAddress:  getEnv("REDIS_ADDRESS", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		RedisPoolSize: getIntEnv("REDIS_POOL_SIZE", 10),

		JWTSecret: getEnv("JWT_SECRET", ""),

		GeneralWindow: getDurationEnv("RATE_LIMIT_GENERAL_WINDOW", 15*time.Minute),
		GeneralMax:    getIntEnv("RATE_LIMIT_GENERAL_MAX", 100),
		AuthWindow:    getDurationEnv("RATE_LIMIT_AUTH_WINDOW", 15*time.Minute),
		AuthMax:       getIntEnv("RATE_LIMIT_AUTH_MAX", 5),
		ReadWindow:    getDurationEnv("RATE_LIMIT_READ_WINDOW", 15*time.Minute),
		ReadMax:       getIntEnv("RATE_LIMIT_READ_MAX", 300),
		WriteWindow:   getDurationEnv("RATE_LIMIT_WRITE_WINDOW", 15*time.Minute),
		WriteMax:      getIntEnv("RATE_LIMIT_WRITE_MAX", 60),

		AuthMultiplier: getIntEnv("RATE_LIMIT_AUTH_MULTIPLIER", 2),
	}
}

// getEnv retrieves an environment variable value or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves an integer environment variable value or returns a
// default value if not set or unparseable.
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv retrieves a duration environment variable value (e.g. "15m",
// "900s") or returns a default value if not set or unparseable.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate performs validation on the configuration. A tier with a
// non-positive window or ceiling is a fatal condition: the process must
// refuse to start rather than run with rate limiting silently disabled.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return errors.ConfigError("PORT must be a valid port number between 1 and 65535")
	}

	if c.RedisAddress != "" {
		if c.RedisDB < 0 || c.RedisDB > 15 {
			return errors.ConfigError("REDIS_DB must be a number between 0 and 15")
		}
		if c.RedisPoolSize < 1 {
			return errors.ConfigError("REDIS_POOL_SIZE must be a positive number")
		}
	}

	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		return errors.ConfigError("JWT_SECRET must be at least 32 characters long for security")
	}

	tiers := []struct {
		name   string
		window time.Duration
		max    int
	}{
		{"general", c.GeneralWindow, c.GeneralMax},
		{"auth", c.AuthWindow, c.AuthMax},
		{"read", c.ReadWindow, c.ReadMax},
		{"write", c.WriteWindow, c.WriteMax},
	}
	for _, tier := range tiers {
		if tier.window <= 0 {
			return errors.ConfigError("rate limit window for tier " + tier.name + " must be positive")
		}
		if tier.max < 1 {
			return errors.ConfigError("rate limit ceiling for tier " + tier.name + " must be positive")
		}
	}

	if c.AuthMultiplier < 1 {
		return errors.ConfigError("RATE_LIMIT_AUTH_MULTIPLIER must be at least 1")
	}

	if c.LivenessPath == "" || c.LivenessPath[0] != '/' {
		return errors.ConfigError("LIVENESS_PATH must be an absolute path")
	}

	return nil
}
