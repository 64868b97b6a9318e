package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/zapponejosh/lunisolar-api/internal/config"
)

const requestTimeout = 30 * time.Second

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /api/v1/solar/{date}
//	GET    /api/v1/lunar/{year}/{month}/{day}?leap=
//	GET    /api/v1/terms/{year}
//	GET    /api/v1/almanac/{year}
//	GET    /api/v1/almanac/{year}/terms.ics
//	GET    /api/v1/ganzhi?datetime=&early_late_zi=
//	GET    /api/v1/fate?datetime=&sex=
//	GET    /api/v1/charts?limit=&offset=
//	GET    /api/v1/charts/{id}
//	POST   /api/v1/charts            (API key)
//	DELETE /api/v1/charts/{id}       (API key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))
	r.Use(RecoveryMiddleware(logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key"},
		MaxAge:         3600,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", CodeBadRequest)
	})

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/solar/{date}", handlers.GetSolarDay)
		r.Get("/lunar/{year}/{month}/{day}", handlers.GetLunarDay)
		r.Get("/terms/{year}", handlers.GetSolarTerms)
		r.Get("/almanac/{year}", handlers.GetAlmanac)
		r.Get("/almanac/{year}/terms.ics", handlers.GetAlmanacICS)
		r.Get("/ganzhi", handlers.GetGanZhi)
		r.Get("/fate", handlers.GetFate)

		r.Route("/charts", func(r chi.Router) {
			r.Get("/", handlers.ListCharts)
			r.Get("/{id}", handlers.GetChart)

			r.Group(func(r chi.Router) {
				r.Use(AuthMiddleware(cfg, logger))
				r.Post("/", handlers.CreateChart)
				r.Delete("/{id}", handlers.DeleteChart)
			})
		})
	})

	return r
}
