package ratelimit

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"rate-gate/internal/common/logging"
	"rate-gate/internal/identity"
)

// Limiter produces per-tier admission middleware over a counter store
type Limiter struct {
	store        *Selector
	livenessPath string
	logger       logging.Logger
}

// NewLimiter creates a middleware factory. livenessPath names the probe path
// excluded from counting when the probe succeeds; empty disables the bypass.
func NewLimiter(store *Selector, livenessPath string, logger logging.Logger) *Limiter {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Limiter{
		store:        store,
		livenessPath: livenessPath,
		logger:       logger,
	}
}

// rejection is the 429 response body
type rejection struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RetryAfter int64  `json:"retryAfter"`
}

// Middleware returns an interceptor enforcing the given policy. Policies are
// validated at startup; the interceptor assumes a valid one.
func (l *Limiter) Middleware(policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.livenessPath != "" && r.URL.Path == l.livenessPath {
				l.serveProbe(policy, next, w, r)
				return
			}
			l.admit(policy, next, w, r)
		})
	}
}

// admit counts the request against its tier and either forwards it or
// short-circuits with a structured 429.
func (l *Limiter) admit(policy Policy, next http.Handler, w http.ResponseWriter, r *http.Request) {
	_, authenticated := identity.FromRequest(r)
	key := counterKey(policy, r)
	ceiling := policy.ceiling(authenticated)

	result, err := l.store.Increment(r.Context(), key, policy.Window)
	if err != nil {
		// Both stores failing is an infrastructure problem, not the
		// caller's; fail open.
		l.logger.Warn("counter increment failed, admitting request",
			logging.String("tier", policy.Name),
			logging.String("key", key),
			logging.Err(err),
		)
		next.ServeHTTP(w, r)
		return
	}

	remaining := ceiling - result.Count
	if remaining < 0 {
		remaining = 0
	}
	w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(ceiling, 10))
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(result.Reset).Unix(), 10))

	if result.Count > ceiling {
		l.reject(w, policy, authenticated, result.Reset)
		return
	}

	next.ServeHTTP(w, r)
}

func (l *Limiter) reject(w http.ResponseWriter, policy Policy, authenticated bool, reset time.Duration) {
	retryAfter := int64(math.Ceil(reset.Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}

	w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	_ = json.NewEncoder(w).Encode(rejection{
		Error:      "Too Many Requests",
		Code:       policy.Code,
		Message:    policy.message(authenticated),
		RetryAfter: retryAfter,
	})
}

// serveProbe forwards a liveness request unconditionally and counts it only
// when the probe failed.
func (l *Limiter) serveProbe(policy Policy, next http.Handler, w http.ResponseWriter, r *http.Request) {
	recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	next.ServeHTTP(recorder, r)

	if recorder.status < 400 {
		return
	}

	if _, err := l.store.Increment(r.Context(), counterKey(policy, r), policy.Window); err != nil {
		l.logger.Debug("failed to count failing probe", logging.Err(err))
	}
}

// counterKey namespaces the client key by tier so the same client counted
// under different windows never collides.
func counterKey(policy Policy, r *http.Request) string {
	return "tier:" + policy.Name + "|" + ClientKey(r)
}

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}
