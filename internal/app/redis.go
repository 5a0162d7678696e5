package app

import (
	"rate-gate/internal/common/logging"
	"rate-gate/internal/redis"
)

// initializeRedis connects the shared counter store when one is configured.
// Absence of REDIS_ADDRESS selects local counters; a configured but
// unreachable Redis logs a warning and selects local counters too. Startup
// never fails on shared-store problems.
func (app *App) initializeRedis() {
	if app.Config.RedisAddress == "" {
		app.Logger.Info("Redis: not configured, using in-process counters")
		return
	}

	redisConfig := &redis.Config{
		Address:  app.Config.RedisAddress,
		Password: app.Config.RedisPassword,
		DB:       app.Config.RedisDB,
		PoolSize: app.Config.RedisPoolSize,
	}

	redisClient, err := redis.NewClient(redisConfig)
	if err != nil {
		app.Logger.Warn("Redis: unreachable at startup, using in-process counters",
			logging.String("address", app.Config.RedisAddress),
			logging.Err(err),
		)
		return
	}

	app.RedisClient = redisClient
	app.Logger.Info("Redis: connected, counters shared across instances",
		logging.String("address", app.Config.RedisAddress),
	)
}
