package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/umaimaes/AgroTrace-MS/internal/middleware/metrics"
	"github.com/umaimaes/AgroTrace-MS/internal/setup"
)

// New creates and configures the chi router with all the routes.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// The original service answered any origin; browser clients for the
	// mobile app run off file:// and random dev hosts.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Use(metrics.Middleware)

	h := deps.Handler
	authMw := deps.AuthMiddleware

	// Account endpoints, with /auth aliases kept for older app builds.
	r.Post("/user/register", h.Register)
	r.Post("/auth/register", h.Register)
	r.Post("/user/login", h.Login)
	r.Post("/auth/login", h.Login)
	r.Post("/user/logout", h.Logout)
	r.Post("/auth/logout", h.Logout)

	// Password reset flow.
	r.Post("/user/send-code", h.SendResetCode)
	r.Get("/user/verification-code/{email}", h.VerifyResetCode)
	r.Post("/user/reset-password", h.ResetPassword)

	r.Get("/user/get-token-info", h.TokenInfo)

	r.Group(func(r chi.Router) {
		r.Use(authMw.NeedAuth())
		r.Get("/user/debug-users", h.DebugUsers)
	})

	// AI service pass-through.
	r.Post("/detect", h.Detect)
	r.Post("/recommend", h.Recommend)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
