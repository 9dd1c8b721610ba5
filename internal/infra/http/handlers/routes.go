package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/visahub/lead-intake/internal/infra/http/middleware"
)

// NewRouter assembles the full HTTP surface. Middleware order matters:
// CORS and metrics wrap everything, request logging records the final
// status, and the route guard runs last so it sees the original request.
func NewRouter(
	authHandler *AuthHandler,
	leadHandler *LeadHandler,
	healthHandler *HealthHandler,
	guard *middleware.Guard,
	logger *zap.Logger,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Metrics)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(guard.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
		})

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", leadHandler.List)
			r.Post("/", leadHandler.Create)
			r.Get("/{id}", leadHandler.Get)
			r.Patch("/{id}", leadHandler.UpdateStatus)
		})
	})

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	// Pages: redirect targets for the guard.
	r.Get("/", HomePage)
	r.Get("/leads", LeadFormPage)
	r.Get("/admin/login", LoginPage)
	r.Get("/admin/leads", AdminLeadsPage)

	return r
}
