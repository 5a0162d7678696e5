package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/health", cfg.LivenessPath)
	assert.Equal(t, "", cfg.RedisAddress)
	assert.Equal(t, 15*time.Minute, cfg.GeneralWindow)
	assert.Equal(t, 100, cfg.GeneralMax)
	assert.Equal(t, 5, cfg.AuthMax)
	assert.GreaterOrEqual(t, cfg.AuthMultiplier, 1)

	// Relative ordering of the default ceilings
	assert.Less(t, cfg.AuthMax, cfg.GeneralMax)
	assert.LessOrEqual(t, cfg.WriteMax, cfg.ReadMax)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDRESS", "redis:6379")
	t.Setenv("RATE_LIMIT_GENERAL_WINDOW", "5m")
	t.Setenv("RATE_LIMIT_GENERAL_MAX", "42")
	t.Setenv("RATE_LIMIT_AUTH_MULTIPLIER", "3")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis:6379", cfg.RedisAddress)
	assert.Equal(t, 5*time.Minute, cfg.GeneralWindow)
	assert.Equal(t, 42, cfg.GeneralMax)
	assert.Equal(t, 3, cfg.AuthMultiplier)
}

func TestLoadIgnoresUnparseableValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_GENERAL_MAX", "not-a-number")
	t.Setenv("RATE_LIMIT_GENERAL_WINDOW", "eventually")

	cfg := Load()

	assert.Equal(t, 100, cfg.GeneralMax)
	assert.Equal(t, 15*time.Minute, cfg.GeneralWindow)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Load()
		return cfg
	}

	t.Run("accepts defaults", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("rejects bad port", func(t *testing.T) {
		cfg := valid()
		cfg.Port = "notaport"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive tier ceiling", func(t *testing.T) {
		cfg := valid()
		cfg.WriteMax = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive tier window", func(t *testing.T) {
		cfg := valid()
		cfg.AuthWindow = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects multiplier below one", func(t *testing.T) {
		cfg := valid()
		cfg.AuthMultiplier = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects short JWT secret", func(t *testing.T) {
		cfg := valid()
		cfg.JWTSecret = "tooshort"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects out-of-range redis db", func(t *testing.T) {
		cfg := valid()
		cfg.RedisAddress = "redis:6379"
		cfg.RedisDB = 16
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects relative liveness path", func(t *testing.T) {
		cfg := valid()
		cfg.LivenessPath = "health"
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing redis address is not an error", func(t *testing.T) {
		cfg := valid()
		cfg.RedisAddress = ""
		assert.NoError(t, cfg.Validate())
	})
}
