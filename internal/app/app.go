// Package app wires the admission layer together: configuration, logging,
// the optional shared counter store, tier policies and the HTTP surface.
package app

import (
	"net/http"

	"rate-gate/internal/common/logging"
	"rate-gate/internal/config"
	"rate-gate/internal/ratelimit"
	"rate-gate/internal/redis"
)

// Policies holds the four tier policies built from configuration
type Policies struct {
	General ratelimit.Policy
	Auth    ratelimit.Policy
	Read    ratelimit.Policy
	Write   ratelimit.Policy
}

// App holds all the application dependencies
type App struct {
	Config      *config.Config
	RedisClient *redis.Client
	LocalStore  *ratelimit.LocalStore
	Store       *ratelimit.Selector
	Limiter     *ratelimit.Limiter
	Policies    Policies
	Backend     http.Handler
	Logger      logging.Logger
}

// New creates a new application instance. backend is the protected API the
// admission layer fronts; it is consumed as an opaque handler. A broken tier
// policy aborts startup; an unreachable shared store does not.
func New(cfg *config.Config, backend http.Handler) (*App, error) {
	if backend == nil {
		backend = http.NotFoundHandler()
	}

	app := &App{
		Config:  cfg,
		Backend: backend,
		Logger:  logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "app"}),
	}

	// The shared store is optional; the process never refuses to start
	// because Redis is down.
	app.initializeRedis()

	if err := app.initializeLimiter(); err != nil {
		return nil, err
	}

	return app, nil
}

// Cleanup releases all resources
func (app *App) Cleanup() {
	if app.LocalStore != nil {
		app.LocalStore.Stop()
	}
	if app.RedisClient != nil {
		if err := app.RedisClient.Close(); err != nil {
			app.Logger.Warn("failed to close redis client", logging.Err(err))
		}
	}
}
