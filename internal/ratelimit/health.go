package ratelimit

import (
	"context"
	"time"
)

// probeTimeout bounds the health probe so polling the endpoint stays cheap
const probeTimeout = 2 * time.Second

// HealthStatus reports infrastructure health, not limiter health: the
// limiter is operational either way, Backend says whether counting is
// currently shared across instances.
type HealthStatus struct {
	Status  string `json:"status"`
	Backend bool   `json:"backend"`
}

// Health probes the shared store. It never fails; an absent or unreachable
// shared store reports Backend false with Status still "ok", because the
// limiter keeps admitting via local counters.
func (s *Selector) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{Status: "ok"}

	if s.shared == nil {
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	status.Backend = s.shared.Ping(ctx) == nil
	return status
}
