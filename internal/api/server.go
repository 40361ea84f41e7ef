// Package api provides the HTTP API server and handlers for Kiasu.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/raygaledev/kiasu/internal/http/response"
	"github.com/raygaledev/kiasu/internal/sse"
	"github.com/raygaledev/kiasu/internal/store"
)

// Options tunes the router: CORS origins and per-minute request budgets.
type Options struct {
	AllowedOrigins []string
	AuthPerMinute  int
	VotesPerMinute int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           store.Store
	services        *Services
	search          SearchHealth
	sseManager      *sse.Manager
	sseHandler      http.Handler
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *RateLimiter
	voteRateLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	st store.Store,
	services *Services,
	search SearchHealth,
	sseManager *sse.Manager,
	sseHandler http.Handler,
	opts Options,
	logger *slog.Logger,
) *Server {
	router := chi.NewRouter()

	s := &Server{
		store:      st,
		services:   services,
		search:     search,
		sseManager: sseManager,
		sseHandler: sseHandler,
		router:     router,
		logger:     logger,
	}
	if opts.AuthPerMinute > 0 {
		s.authRateLimiter = NewRateLimiter(opts.AuthPerMinute, time.Minute, opts.AuthPerMinute)
	}
	if opts.VotesPerMinute > 0 {
		s.voteRateLimiter = NewRateLimiter(opts.VotesPerMinute, time.Minute, opts.VotesPerMinute)
	}

	s.setupMiddleware(opts)
	s.api = humachi.New(router, newHumaConfig())
	RegisterErrorHandler()
	s.setupRoutes()

	return s
}

func newHumaConfig() huma.Config {
	humaConfig := huma.DefaultConfig("Kiasu API", "1.0.0")
	humaConfig.Info.Description = "Study lists: create, order, share and discover."
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	return humaConfig
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mostly for OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

// Shutdown stops the rate limiter janitors.
func (s *Server) Shutdown() error {
	if s.authRateLimiter != nil {
		s.authRateLimiter.Stop()
	}
	if s.voteRateLimiter != nil {
		s.voteRateLimiter.Stop()
	}
	return nil
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if s.services != nil && s.services.Auth != nil {
		s.router.Use(authMiddleware(s.services.Auth))
	}
	s.router.Use(requestLogger(s.logger))
}

// setupRoutes registers every operation.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerListRoutes()
	s.registerItemRoutes()
	s.registerDiscoveryRoutes()
	s.registerAdminRoutes()
	s.registerMediaRoutes()

	if s.sseHandler != nil {
		s.router.Get("/api/v1/events", s.sseHandler.ServeHTTP)
	}

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, "Method not allowed", s.logger)
	})
}
