package ratelimit

import (
	"context"
	"time"

	"rate-gate/internal/common/errors"
	"rate-gate/internal/redis"
)

// opTimeout bounds every shared-store operation so a slow or hung Redis
// cannot stall request handling.
const opTimeout = 2 * time.Second

// RedisStore counts in a shared Redis instance so the ceiling holds across
// all server processes behind the load balancer.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a shared counter store over an established client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "ratelimit:",
	}
}

// Increment implements CounterStore
func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	count, reset, err := s.client.IncrWindow(ctx, s.prefix+key, window)
	if err != nil {
		return Result{}, errors.ConnectionError("shared counter increment failed", err)
	}

	return Result{Count: count, Reset: reset}, nil
}

// Reset implements CounterStore
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Delete(ctx, s.prefix+key); err != nil {
		return errors.ConnectionError("shared counter reset failed", err)
	}
	return nil
}

// Ping implements CounterStore
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.client.Ping(ctx)
}

var _ CounterStore = (*RedisStore)(nil)
