// Package handlers provides the operational HTTP endpoints of the admission
// layer: the health check and counter remediation.
package handlers

import (
	"encoding/json"
	"net/http"

	"rate-gate/internal/common/logging"
	"rate-gate/internal/ratelimit"
)

type Handlers struct {
	store  *ratelimit.Selector
	logger logging.Logger
}

func New(store *ratelimit.Selector, logger logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Handlers{
		store:  store,
		logger: logger,
	}
}

// HealthCheck reports whether the shared counter store is reachable. The
// endpoint itself is always 200: an unreachable backend means degraded
// counting, not an unhealthy limiter. Safe to poll frequently.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := h.store.Health(r.Context())

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}

// ResetRateKey deletes a specific counter immediately, for operational
// remediation such as unblocking a misconfigured client. The key comes from
// the "key" query parameter (e.g. "tier:general|user:42"). Resetting a key
// that does not exist succeeds.
func (h *Handlers) ResetRateKey(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, `{"error": "key query parameter is required"}`, http.StatusBadRequest)
		return
	}

	if err := h.store.Reset(r.Context(), key); err != nil {
		h.logger.Error("failed to reset rate limit counter", err, logging.String("key", key))
		http.Error(w, `{"error": "failed to reset counter"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info("rate limit counter reset", logging.String("key", key))
	w.WriteHeader(http.StatusNoContent)
}
