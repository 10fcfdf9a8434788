// Package api provides the HTTP REST API of the live metrics service. It
// exposes entity configuration, live series, stats and capture windows.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/janakawicks/manageiq/docs" // Registers the OpenAPI spec
	apihandlers "github.com/janakawicks/manageiq/internal/api/handlers"
	"github.com/janakawicks/manageiq/internal/api/middleware"
	"github.com/janakawicks/manageiq/internal/config"
	"github.com/janakawicks/manageiq/internal/db"
	"github.com/janakawicks/manageiq/internal/errors"
	"github.com/janakawicks/manageiq/internal/livemetrics"
	"github.com/janakawicks/manageiq/internal/logging"
	"github.com/janakawicks/manageiq/internal/metrics"
)

const (
	serverShutdownTimeout = 30 * time.Second
	maxHeaderBytes        = 1 << 20
)

// Dependencies are the collaborators the server routes requests to.
type Dependencies struct {
	// Registry resolves entity type declarations. Required.
	Registry *livemetrics.Registry

	// Captures serves per-entity capture services. Without it only the
	// configuration route is mounted.
	Captures apihandlers.CaptureProvider

	// Database backs the health check. May be nil.
	Database *db.DB

	// Metrics receives HTTP metrics and is exposed on /metrics. Defaults to
	// the global collectors.
	Metrics *metrics.PrometheusMetrics

	Logger *logging.Logger
}

// Server represents the API server.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	config     *config.Config
	logger     *logging.Logger
	metrics    *metrics.PrometheusMetrics
	startTime  time.Time
}

// New creates a new API server instance.
func New(cfg *config.Config, deps Dependencies) (*Server, error) {
	if cfg == nil {
		return nil, errors.NewConfigError(errors.CodeConfiguration, "api server requires a configuration")
	}
	if deps.Registry == nil {
		return nil, errors.NewConfigError(errors.CodeConfiguration, "api server requires a live metrics registry")
	}
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.GetGlobalMetrics()
	}

	server := &Server{
		router:    mux.NewRouter(),
		config:    cfg,
		logger:    deps.Logger.WithComponent("api"),
		metrics:   deps.Metrics,
		startTime: time.Now(),
	}

	server.setupMiddleware()
	server.setupRoutes(deps)

	server.httpServer = &http.Server{
		Addr:           net.JoinHostPort(cfg.API.ListenAddr, strconv.Itoa(cfg.API.Port)),
		Handler:        server.router,
		ReadTimeout:    cfg.API.ReadTimeout,
		WriteTimeout:   cfg.API.WriteTimeout,
		IdleTimeout:    cfg.API.IdleTimeout,
		MaxHeaderBytes: maxHeaderBytes,
	}

	return server, nil
}

// Start serves until ctx is canceled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting API server",
		"address", s.httpServer.Addr,
		"read_timeout", s.httpServer.ReadTimeout,
		"write_timeout", s.httpServer.WriteTimeout)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("API server failed: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return s.Stop()
	case err := <-errChan:
		return err
	}
}

// Stop gracefully stops the API server.
func (s *Server) Stop() error {
	s.logger.Info("Stopping API server")

	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("API server shutdown error", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("API server stopped successfully")
	return nil
}

func (s *Server) setupRoutes(deps Dependencies) {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	// A typed nil *db.DB must not reach the handler as a non-nil pinger.
	var pinger apihandlers.DatabasePinger
	if deps.Database != nil {
		pinger = deps.Database
	}
	health := apihandlers.NewHealthHandler(pinger, s.logger.Logger)
	api.HandleFunc("/liveness", health.Liveness).Methods(http.MethodGet)
	api.HandleFunc("/health", health.Health).Methods(http.MethodGet)

	entities := apihandlers.NewEntityHandler(deps.Registry, deps.Captures, deps.Logger,
		apihandlers.WithConcurrency(s.config.LiveMetrics.Concurrency))
	api.HandleFunc("/entities/{type}/config", entities.Config).Methods(http.MethodGet)

	if deps.Captures != nil {
		entity := api.PathPrefix("/entities/{type}/{id}").Subrouter()
		entity.HandleFunc("/metrics", entities.MetricsAvailable).Methods(http.MethodGet)
		entity.HandleFunc("/live", entities.Live).Methods(http.MethodGet)
		entity.HandleFunc("/stats", entities.Stats).Methods(http.MethodGet)
		entity.HandleFunc("/capture-window", entities.CaptureWindow).Methods(http.MethodGet)
	} else {
		s.logger.Warn("No capture store configured, entity capture routes disabled")
	}

	s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.GetRegistry(), promhttp.HandlerOpts{})).
		Methods(http.MethodGet)

	s.router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
	))
	s.router.HandleFunc("/docs", s.redirectToSwagger).Methods(http.MethodGet)

	s.router.HandleFunc("/", s.index).Methods(http.MethodGet)
}

// redirectToSwagger sends documentation requests to the Swagger UI.
func (s *Server) redirectToSwagger(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Recovery(s.logger.Logger))
	s.router.Use(middleware.Logging(s.logger.Logger))
	s.router.Use(middleware.Metrics(s.metrics))
	s.router.Use(middleware.SecurityHeaders())

	if s.config.API.EnableCORS {
		s.router.Use(handlers.CORS(
			handlers.AllowedOrigins(s.config.API.CORSOrigins),
			handlers.AllowedHeaders([]string{"Content-Type", "X-Request-ID"}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		))
	}
}

// index describes the API for root requests.
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"service": "Live Metrics API",
		"version": "v1",
		"endpoints": map[string]string{
			"liveness":       "/api/v1/liveness",
			"health":         "/api/v1/health",
			"config":         "/api/v1/entities/{type}/config",
			"metrics":        "/api/v1/entities/{type}/{id}/metrics",
			"live":           "/api/v1/entities/{type}/{id}/live",
			"stats":          "/api/v1/entities/{type}/{id}/stats",
			"capture_window": "/api/v1/entities/{type}/{id}/capture-window",
			"prometheus":     "/metrics",
			"docs":           "/swagger/",
		},
		"uptime":    time.Since(s.startTime).String(),
		"timestamp": time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("Failed to encode API index response", "error", err)
	}
}

// GetRouter returns the configured router.
func (s *Server) GetRouter() *mux.Router {
	return s.router
}

// GetAddress returns the server address.
func (s *Server) GetAddress() string {
	return s.httpServer.Addr
}
