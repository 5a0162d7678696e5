package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of a single counter increment
type Result struct {
	// Count is the number of requests observed for the key in the
	// current window, including this one
	Count int64
	// Reset is the time remaining until the window resets
	Reset time.Duration
}

// CounterStore counts requests per key within fixed time windows. The count
// for a (key, window) pair never decreases within the window's lifetime and
// starts from one again once the window elapses.
//
// Callers namespace keys by tier (e.g. "tier:general|user:42") so the same
// client key counted under different windows never collides.
type CounterStore interface {
	// Increment atomically adds one to the counter for key in its current
	// window and returns the new count and time until reset
	Increment(ctx context.Context, key string, window time.Duration) (Result, error)

	// Reset deletes the counter for key. Resetting a key that does not
	// exist is not an error.
	Reset(ctx context.Context, key string) error

	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error
}
