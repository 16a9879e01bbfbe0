// Package server provides the HTTP server implementation.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/mongo-crud-api/internal/config"
	"github.com/vyrodovalexey/mongo-crud-api/internal/handler"
	"github.com/vyrodovalexey/mongo-crud-api/internal/middleware"
	"github.com/vyrodovalexey/mongo-crud-api/internal/model"
	"github.com/vyrodovalexey/mongo-crud-api/internal/store"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	handler    http.Handler
	config     *config.Config
	logger     *zap.Logger
	wsHandler  *handler.WebSocketHandler
}

// New creates a new Server instance serving itemStore.
func New(cfg *config.Config, logger *zap.Logger, itemStore store.Store) *Server {
	s := &Server{
		router: mux.NewRouter(),
		config: cfg,
		logger: logger,
	}

	s.setupRoutes(itemStore)
	s.setupMiddleware()
	s.setupHTTPServer()

	return s
}

// setupMiddleware configures the middleware chain. Route-aware metrics run
// inside the router; everything else wraps it so unmatched requests are
// still recovered, logged and answered with CORS headers.
func (s *Server) setupMiddleware() {
	allowedOrigins := []string{"*"}
	allowedMethods := []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
		http.MethodOptions,
	}
	allowedHeaders := []string{
		"Content-Type",
		middleware.RequestIDHeader,
	}

	if s.config.MetricsEnabled {
		metrics := middleware.Metrics()
		s.router.Use(mux.MiddlewareFunc(metrics))
		// Router middleware only runs on matched routes.
		s.router.NotFoundHandler = metrics(http.HandlerFunc(http.NotFound))
		s.router.MethodNotAllowedHandler = metrics(http.HandlerFunc(methodNotAllowed))
	}

	s.handler = middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.RequestID(),
		middleware.Logging(s.logger),
		middleware.CORS(allowedOrigins, allowedMethods, allowedHeaders),
	)(s.router)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusMethodNotAllowed)
}

// setupRoutes configures the API routes.
func (s *Server) setupRoutes(itemStore store.Store) {
	s.wsHandler = handler.NewWebSocketHandler(s.logger)
	s.wsHandler.RegisterRoutes(s.router)

	restHandler := handler.NewRESTHandler(itemStore, s.logger,
		handler.WithValidator(s.validator()),
		handler.WithPublisher(s.wsHandler),
	)
	restHandler.RegisterRoutes(s.router)

	if s.config.MetricsEnabled {
		s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}
}

// validator selects the request body validator from configuration.
func (s *Server) validator() model.Validator {
	if s.config.SchemaValidation {
		return model.ItemSchema
	}
	return model.AcceptAny
}

// setupHTTPServer configures the HTTP server.
func (s *Server) setupHTTPServer() {
	s.httpServer = &http.Server{
		Addr:              s.config.Address(),
		Handler:           s.handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting server",
		zap.String("address", s.config.Address()),
		zap.Bool("metrics_enabled", s.config.MetricsEnabled),
		zap.Bool("schema_validation", s.config.SchemaValidation),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server listen and serve: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if s.wsHandler != nil {
		s.wsHandler.CloseAllConnections()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}
