package ratelimit

import (
	"net"
	"net/http"
	"strings"

	"rate-gate/internal/identity"
)

// ClientKey derives the rate-limiting key for a request. A verified caller
// identity always wins over address heuristics because it cannot be spoofed
// by header manipulation. Anonymous requests fall back to the client address.
func ClientKey(r *http.Request) string {
	if caller, ok := identity.FromRequest(r); ok && caller.ID != "" {
		return "user:" + caller.ID
	}
	return "ip:" + clientAddress(r)
}

// clientAddress resolves the client address, preferring the leftmost entry of
// the forwarded-address chain. Trusting that entry assumes the deployment
// sits behind a proxy chain that sanitizes the header; no verification of the
// header is performed here. Segments that are not parseable addresses are
// used verbatim as opaque keys rather than rejected.
func clientAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for _, segment := range strings.Split(forwarded, ",") {
			if segment = strings.TrimSpace(segment); segment != "" {
				return segment
			}
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
