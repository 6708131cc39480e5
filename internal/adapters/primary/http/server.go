package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/githubixx/signage-go/internal/infrastructure/config"
)

// Server represents the HTTP server
type Server struct {
	config *config.ServerConfig
	logger *slog.Logger
	server *http.Server
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.ServerConfig, logger *slog.Logger, mux http.Handler) *Server {
	return &Server{
		config: cfg,
		logger: logger,
		server: &http.Server{
			Addr:           fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:        mux,
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
			MaxHeaderBytes: cfg.MaxHeaderBytes,
		},
	}
}

// Start starts the HTTP server. It returns http.ErrServerClosed after
// Shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server",
		slog.String("addr", s.server.Addr),
		slog.Bool("tls", s.config.TLS.Enabled),
	)

	if s.config.TLS.Enabled {
		return s.server.ListenAndServeTLS(s.config.TLS.CertFile, s.config.TLS.KeyFile)
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// SetupRoutes configures all HTTP routes using Go 1.22+ routing
func SetupRoutes(handler *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Apply middleware chain
	chain := func(h http.HandlerFunc, middlewares ...func(http.Handler) http.Handler) http.Handler {
		handler := http.Handler(h)
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}

	// Common middleware for all routes
	common := []func(http.Handler) http.Handler{
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		SecurityHeadersMiddleware(),
		CompressionMiddleware(),
	}

	// Pages
	mux.Handle("GET /{$}", chain(handler.Display, common...))
	mux.Handle("GET /news", chain(handler.NewsStatusPage, common...))

	// Presentation API
	mux.Handle("GET /api/schedule", chain(handler.ScheduleJSON, common...))
	mux.Handle("GET /api/news/current", chain(handler.CurrentNewsJSON, common...))
	mux.Handle("GET /api/news/stats", chain(handler.NewsStatsJSON, common...))
	mux.Handle("GET /api/news", chain(handler.NewsListJSON, common...))
	mux.Handle("POST /api/carousel/{name}/next", chain(handler.CarouselNext, common...))
	mux.Handle("POST /api/carousel/{name}/prev", chain(handler.CarouselPrev, common...))

	mux.Handle("GET /healthz", chain(handler.Health, RecoveryMiddleware(logger), LoggingMiddleware(logger)))

	return mux
}
