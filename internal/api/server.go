package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/albapepper/hockey-explainer/internal/api/handler"
	"github.com/albapepper/hockey-explainer/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(deps handler.Deps, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Authorization", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	deps.Config = cfg
	deps.Logger = logger
	h := handler.New(deps)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
		r.Get("/roster", h.HealthCheckRoster)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Catalog
		r.Get("/domains", h.Domains)
		r.Get("/archetypes", h.Archetypes)
		r.Get("/random", h.Random)
		r.Get("/autofill", h.GetAutofill)

		// Queries
		r.Get("/explain/{query}", h.Explain)
		r.Get("/compare/{query}", h.Compare)
		r.Get("/lookup/{domain}", h.Lookup)

		// Admin, mounted only when a signing secret is configured
		if cfg.AdminEnabled() {
			r.Route("/admin", func(r chi.Router) {
				r.Use(AdminAuthMiddleware(cfg.AdminJWTSecret, logger))
				r.Post("/roster/refresh", h.RefreshRoster)
				r.Post("/knowledge/reload", h.ReloadKnowledge)
			})
		}

		// Domain listing. Static routes
		// above take precedence over the parameter.
		r.Get("/{domain}", h.ListDomain)
	})

	return r
}
