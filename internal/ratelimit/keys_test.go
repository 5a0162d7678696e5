package ratelimit

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"rate-gate/internal/identity"
)

func TestClientKeyPrefersIdentity(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/things", nil)
	req.Header.Set("X-Forwarded-For", "192.168.1.1, 10.0.0.1")
	req.RemoteAddr = "203.0.113.7:4312"
	req = req.WithContext(identity.WithCaller(req.Context(), identity.Caller{ID: "42"}))

	assert.Equal(t, "user:42", ClientKey(req))
}

func TestClientKeyForwardedChain(t *testing.T) {
	tests := []struct {
		name      string
		forwarded string
		want      string
	}{
		{"single address", "192.168.1.1", "ip:192.168.1.1"},
		{"takes leftmost", "192.168.1.1, 10.0.0.1", "ip:192.168.1.1"},
		{"trims whitespace", "  192.168.1.1 , 10.0.0.1", "ip:192.168.1.1"},
		{"skips empty segments", " , 10.0.0.1", "ip:10.0.0.1"},
		{"opaque garbage used verbatim", "not-an-address", "ip:not-an-address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/things", nil)
			req.Header.Set("X-Forwarded-For", tt.forwarded)
			req.RemoteAddr = "203.0.113.7:4312"

			assert.Equal(t, tt.want, ClientKey(req))
		})
	}
}

func TestClientKeyRemoteAddrFallback(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/things", nil)
	req.RemoteAddr = "203.0.113.7:4312"

	assert.Equal(t, "ip:203.0.113.7", ClientKey(req))
}

func TestClientKeyRemoteAddrWithoutPort(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/things", nil)
	req.RemoteAddr = "203.0.113.7"

	assert.Equal(t, "ip:203.0.113.7", ClientKey(req))
}

func TestClientKeyDeterministic(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/things", nil)
	req.Header.Set("X-Forwarded-For", "192.168.1.1, 10.0.0.1")
	req.RemoteAddr = "203.0.113.7:4312"

	assert.Equal(t, ClientKey(req), ClientKey(req))
}
