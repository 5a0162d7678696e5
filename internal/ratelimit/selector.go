package ratelimit

import (
	"context"
	"time"

	"rate-gate/internal/common/logging"
)

// Selector routes counter operations to the shared store when one is
// configured, falling back to the local store per operation when the shared
// store errors. Infrastructure failure admits traffic with degraded counting
// accuracy; it never blocks it. The shared store stays primary across
// failures, so a transient error is never cached as "down".
type Selector struct {
	shared CounterStore // nil when no shared store is configured
	local  CounterStore
	logger logging.Logger
}

// NewSelector creates a selector. shared may be nil, local must not be.
func NewSelector(shared CounterStore, local CounterStore, logger logging.Logger) *Selector {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Selector{
		shared: shared,
		local:  local,
		logger: logger,
	}
}

// Increment counts against the shared store, retrying the single operation
// against the local store on failure.
func (s *Selector) Increment(ctx context.Context, key string, window time.Duration) (Result, error) {
	if s.shared != nil {
		result, err := s.shared.Increment(ctx, key, window)
		if err == nil {
			return result, nil
		}
		s.logger.Warn("shared counter store unavailable, using local counters",
			logging.String("key", key),
			logging.Err(err),
		)
	}
	return s.local.Increment(ctx, key, window)
}

// Reset deletes the counter for key from both stores, best effort. Missing
// keys and an unreachable shared store are not errors.
func (s *Selector) Reset(ctx context.Context, key string) error {
	if s.shared != nil {
		if err := s.shared.Reset(ctx, key); err != nil {
			s.logger.Warn("shared counter reset failed",
				logging.String("key", key),
				logging.Err(err),
			)
		}
	}
	return s.local.Reset(ctx, key)
}

// SharedConfigured reports whether a shared store is wired in
func (s *Selector) SharedConfigured() bool {
	return s.shared != nil
}
