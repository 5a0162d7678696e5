package identity

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Middleware returns an HTTP middleware that verifies a Bearer token and
// attaches the caller identity to the request context. Requests without a
// token, or with one that fails verification, proceed anonymously; rejecting
// them is the job of the route's own authentication, not of admission.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if caller, ok := callerFromToken(r, secret); ok {
				r = r.WithContext(WithCaller(r.Context(), caller))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func callerFromToken(r *http.Request, secret string) (Caller, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return Caller{}, false
	}

	token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "),
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil || !token.Valid {
		return Caller{}, false
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return Caller{}, false
	}

	return Caller{ID: subject}, true
}
