package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dsb-tools/billet2ics/internal/config"
	"github.com/dsb-tools/billet2ics/internal/converter"
	"github.com/dsb-tools/billet2ics/pkg/logger"
)

// Router is the API router
type Router struct {
	handler    *Handler
	middleware *Middleware
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(service *converter.Service, config *config.Config, logger *logger.Logger) *Router {
	return &Router{
		handler:    NewHandler(service, config, logger),
		middleware: NewMiddleware(logger),
		config:     config,
		logger:     logger.Named("api-router"),
	}
}

// Routes returns the API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)
	router.Use(r.middleware.CORS(r.config.Server.CORSAllowedOrigins))
	router.Use(r.middleware.MaxBodySize(r.config.Server.MaxUploadBytes()))

	// API routes
	router.Route("/api/v1", func(router chi.Router) {
		// Ticket conversion
		router.Post("/convert", r.handler.ConvertTicket)

		// Conversion history
		router.Get("/conversions", r.handler.GetRecentConversions)

		// Health check
		router.Get("/health", r.handler.GetHealth)
	})

	return router
}
