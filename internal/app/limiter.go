package app

import (
	"rate-gate/internal/common/logging"
	"rate-gate/internal/ratelimit"
)

// initializeLimiter builds the tier policies, the counter store selector and
// the middleware factory. Policy validation failures are fatal: the process
// must refuse to start rather than run without admission control.
func (app *App) initializeLimiter() error {
	cfg := app.Config

	app.Policies = Policies{
		General: ratelimit.GeneralPolicy(cfg.GeneralWindow, cfg.GeneralMax, cfg.AuthMultiplier),
		Auth:    ratelimit.AuthPolicy(cfg.AuthWindow, cfg.AuthMax),
		Read:    ratelimit.ReadPolicy(cfg.ReadWindow, cfg.ReadMax, cfg.AuthMultiplier),
		Write:   ratelimit.WritePolicy(cfg.WriteWindow, cfg.WriteMax, cfg.AuthMultiplier),
	}

	for _, policy := range []ratelimit.Policy{
		app.Policies.General,
		app.Policies.Auth,
		app.Policies.Read,
		app.Policies.Write,
	} {
		if err := policy.Validate(); err != nil {
			return err
		}
	}

	var shared ratelimit.CounterStore
	if app.RedisClient != nil {
		shared = ratelimit.NewRedisStore(app.RedisClient)
	}

	app.LocalStore = ratelimit.NewLocalStore()
	app.Store = ratelimit.NewSelector(shared, app.LocalStore, app.Logger)
	app.Limiter = ratelimit.NewLimiter(app.Store, cfg.LivenessPath, app.Logger)

	app.Logger.Info("Rate limiting: enabled",
		logging.Int("general_max", cfg.GeneralMax),
		logging.Int("auth_max", cfg.AuthMax),
		logging.Int("read_max", cfg.ReadMax),
		logging.Int("write_max", cfg.WriteMax),
		logging.Int("auth_multiplier", cfg.AuthMultiplier),
		logging.Bool("shared_store", shared != nil),
	)

	return nil
}
