package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"rate-gate/internal/handlers"
	"rate-gate/internal/identity"
	"rate-gate/internal/middleware"
)

// Router builds the HTTP surface: the liveness endpoint, the admin counter
// reset, and the protected backend mounted behind the tier middlewares.
//
// The general tier wraps everything; the auth tier stacks on top of it for
// authentication endpoints, and all other API traffic goes through the read
// or write tier depending on the method.
func (app *App) Router() *mux.Router {
	router := mux.NewRouter()

	if app.Config.JWTSecret != "" {
		router.Use(identity.Middleware(app.Config.JWTSecret))
	}
	router.Use(middleware.Logging)
	router.Use(mux.MiddlewareFunc(app.Limiter.Middleware(app.Policies.General)))

	h := handlers.New(app.Store, app.Logger)
	router.HandleFunc(app.Config.LivenessPath, h.HealthCheck).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/rate-limit", h.ResetRateKey).Methods("DELETE")

	authLimiter := app.Limiter.Middleware(app.Policies.Auth)
	api.PathPrefix("/auth").Handler(authLimiter(app.Backend))

	api.PathPrefix("/").Handler(app.readWriteLimiter()(app.Backend))

	return router
}

// readWriteLimiter applies the read tier to safe methods and the write tier
// to mutating ones.
func (app *App) readWriteLimiter() func(http.Handler) http.Handler {
	read := app.Limiter.Middleware(app.Policies.Read)
	write := app.Limiter.Middleware(app.Policies.Write)

	return func(next http.Handler) http.Handler {
		readHandler := read(next)
		writeHandler := write(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				readHandler.ServeHTTP(w, r)
			default:
				writeHandler.ServeHTTP(w, r)
			}
		})
	}
}
