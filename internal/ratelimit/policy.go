package ratelimit

import (
	"time"

	"rate-gate/internal/common/errors"
)

// Violation codes returned in 429 bodies
const (
	CodeRateLimit     = "RATE_LIMIT_EXCEEDED"
	CodeAuthRateLimit = "AUTH_RATE_LIMIT_EXCEEDED"
)

// Default violation messages. Anonymous callers are nudged toward
// authenticating for a higher ceiling; authenticated callers get a neutral
// message; the auth tier uses one fixed message for everyone.
const (
	anonymousMessage     = "Too many requests from this address. Sign in for a higher limit, or try again later."
	authenticatedMessage = "Too many requests. Please slow down and try again later."
	authTierMessage      = "You have made too many authentication attempts. Please try again later."
)

// Policy is an immutable tier configuration, constructed once at startup.
type Policy struct {
	Name   string
	Window time.Duration
	// Limit is the anonymous ceiling per window
	Limit int
	// AuthMultiplier scales Limit for authenticated callers; 1 means the
	// ceiling applies equally to everyone
	AuthMultiplier int
	// Code is the machine-readable violation code
	Code string
	// Message and AuthMessage are the human-readable violation messages for
	// anonymous and authenticated callers respectively
	Message     string
	AuthMessage string
}

// GeneralPolicy builds the tier applied to all API traffic
func GeneralPolicy(window time.Duration, limit, authMultiplier int) Policy {
	return Policy{
		Name:           "general",
		Window:         window,
		Limit:          limit,
		AuthMultiplier: authMultiplier,
		Code:           CodeRateLimit,
		Message:        anonymousMessage,
		AuthMessage:    authenticatedMessage,
	}
}

// AuthPolicy builds the tier for authentication endpoints. The ceiling is
// deliberately very low and identical for every trust level: a valid session
// is no licence to hammer the login endpoint.
func AuthPolicy(window time.Duration, limit int) Policy {
	return Policy{
		Name:           "auth",
		Window:         window,
		Limit:          limit,
		AuthMultiplier: 1,
		Code:           CodeAuthRateLimit,
		Message:        authTierMessage,
		AuthMessage:    authTierMessage,
	}
}

// ReadPolicy builds the tier for read traffic
func ReadPolicy(window time.Duration, limit, authMultiplier int) Policy {
	return Policy{
		Name:           "read",
		Window:         window,
		Limit:          limit,
		AuthMultiplier: authMultiplier,
		Code:           CodeRateLimit,
		Message:        anonymousMessage,
		AuthMessage:    authenticatedMessage,
	}
}

// WritePolicy builds the tier for mutating traffic
func WritePolicy(window time.Duration, limit, authMultiplier int) Policy {
	return Policy{
		Name:           "write",
		Window:         window,
		Limit:          limit,
		AuthMultiplier: authMultiplier,
		Code:           CodeRateLimit,
		Message:        anonymousMessage,
		AuthMessage:    authenticatedMessage,
	}
}

// Validate reports whether the policy is usable. A failing policy is a
// configuration error and must abort startup: running with a broken policy
// would silently disable admission control.
func (p Policy) Validate() error {
	if p.Name == "" {
		return errors.ValidationError("rate limit policy requires a name")
	}
	if p.Window <= 0 {
		return errors.ValidationError("rate limit policy " + p.Name + " requires a positive window")
	}
	if p.Limit < 1 {
		return errors.ValidationError("rate limit policy " + p.Name + " requires a positive ceiling")
	}
	if p.AuthMultiplier < 1 {
		return errors.ValidationError("rate limit policy " + p.Name + " requires a multiplier of at least 1")
	}
	if p.Code == "" {
		return errors.ValidationError("rate limit policy " + p.Name + " requires a violation code")
	}
	return nil
}

// ceiling returns the effective ceiling for the caller's trust level
func (p Policy) ceiling(authenticated bool) int64 {
	if authenticated {
		return int64(p.Limit) * int64(p.AuthMultiplier)
	}
	return int64(p.Limit)
}

// message returns the violation message for the caller's trust level
func (p Policy) message(authenticated bool) string {
	if authenticated {
		return p.AuthMessage
	}
	return p.Message
}
