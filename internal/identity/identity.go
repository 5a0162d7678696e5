// Package identity carries the verified caller identity attached to a
// request by the authentication layer. The admission middleware only ever
// reads it: presence means "authenticated", absence means "anonymous".
package identity

import (
	"context"
	"net/http"
)

// Caller is the verified principal for a request
type Caller struct {
	ID string
}

type contextKey struct{}

// WithCaller returns a context carrying the caller identity
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, caller)
}

// FromContext extracts the caller identity, if any
func FromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(contextKey{}).(Caller)
	return caller, ok
}

// FromRequest extracts the caller identity from a request, if any
func FromRequest(r *http.Request) (Caller, bool) {
	return FromContext(r.Context())
}
