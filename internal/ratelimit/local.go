package ratelimit

import (
	"context"
	"sync"
	"time"
)

const defaultSweepPeriod = time.Minute

// LocalStore keeps counters in process memory. It is only accurate within a
// single process and exists as the degraded-mode fallback when the shared
// store is not configured or unreachable.
type LocalStore struct {
	mu      sync.Mutex
	entries map[string]*localEntry

	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

type localEntry struct {
	count       int64
	windowStart time.Time
	window      time.Duration
}

// NewLocalStore creates a local counter store and starts a background sweep
// that evicts entries whose window has expired, bounding memory growth.
func NewLocalStore() *LocalStore {
	s := newLocalStore(time.Now)
	go s.sweepLoop(defaultSweepPeriod)
	return s
}

// newLocalStore creates a store without the sweeper, with an injectable clock
func newLocalStore(now func() time.Time) *LocalStore {
	return &LocalStore{
		entries: make(map[string]*localEntry),
		now:     now,
		stop:    make(chan struct{}),
	}
}

// Increment implements CounterStore
func (s *LocalStore) Increment(_ context.Context, key string, window time.Duration) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, exists := s.entries[key]
	if !exists || now.Sub(entry.windowStart) >= entry.window {
		entry = &localEntry{count: 0, windowStart: now, window: window}
		s.entries[key] = entry
	}
	entry.count++

	reset := entry.window - now.Sub(entry.windowStart)
	if reset < 0 {
		reset = 0
	}

	return Result{Count: entry.count, Reset: reset}, nil
}

// Reset implements CounterStore
func (s *LocalStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Ping implements CounterStore. Process memory is always reachable.
func (s *LocalStore) Ping(_ context.Context) error {
	return nil
}

// Stop halts the background sweep
func (s *LocalStore) Stop() {
	s.once.Do(func() { close(s.stop) })
}

func (s *LocalStore) sweepLoop(period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep removes entries whose window elapsed without another touch
func (s *LocalStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if now.Sub(entry.windowStart) >= entry.window {
			delete(s.entries, key)
		}
	}
}

var _ CounterStore = (*LocalStore)(nil)
