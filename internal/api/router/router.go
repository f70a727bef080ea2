package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jortega/meetslot/internal/gcal"
	"github.com/jortega/meetslot/internal/http/handlers"
	httpmiddleware "github.com/jortega/meetslot/internal/http/middleware"
	"github.com/jortega/meetslot/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Calendar           *handlers.CalendarHandler
	OAuth              *gcal.OAuthHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.Calendar.Health)
	r.Route("/calendar", func(r chi.Router) {
		r.Get("/availability", cfg.Calendar.Availability)
		r.Post("/book", cfg.Calendar.Book)
	})
	// Operator-only consent flow for minting the calendar refresh token.
	if cfg.OAuth != nil {
		r.Get("/auth/google/start", cfg.OAuth.Start)
		r.Get("/auth/google/callback", cfg.OAuth.Callback)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
