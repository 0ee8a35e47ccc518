// Package server wires the storefront's HTTP surface: the backend proxy,
// the session endpoints, the guarded pages and the operational endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/wanderly-dev/storefront/internal/admin"
	"github.com/wanderly-dev/storefront/internal/backend"
	"github.com/wanderly-dev/storefront/internal/config"
	"github.com/wanderly-dev/storefront/internal/forms"
	"github.com/wanderly-dev/storefront/internal/guard"
	"github.com/wanderly-dev/storefront/internal/logger"
	"github.com/wanderly-dev/storefront/internal/metrics"
	"github.com/wanderly-dev/storefront/internal/pages"
	"github.com/wanderly-dev/storefront/internal/probe"
	"github.com/wanderly-dev/storefront/internal/proxy"
)

// Server represents the HTTP server
type Server struct {
	router    *gin.Engine
	config    *config.Config
	logger    zerolog.Logger
	validator *validator.Validate
	client    *backend.Client
	proxy     *proxy.Proxy
	guard     *guard.Guard
	metrics   *metrics.Metrics
	pages     *pages.Handler
	admin     *admin.Handler
	probe     *probe.Probe
	version   string
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	table := guard.DefaultTable()
	if cfg.Server.RoutesFile != "" {
		loaded, err := guard.LoadTable(cfg.Server.RoutesFile)
		if err != nil {
			return nil, err
		}
		table = loaded
		zlog.Info().Str("file", cfg.Server.RoutesFile).Msg("Loaded route table")
	}

	if !cfg.Backend.Configured() {
		zlog.Warn().Msg("API_BASE_URL or API_KEY missing - proxy and page data are disabled")
	}

	renderer, err := pages.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}

	validate := forms.NewValidator()
	client := backend.New(cfg.Backend, nil, logger.Component(zlog, "backend"))
	m := metrics.New()

	// Any cheap authenticated read proves the base URL and API key work
	checkBackend := func(ctx context.Context) error {
		_, err := client.Categories(ctx, "")
		return err
	}

	server := &Server{
		config:    cfg,
		logger:    zlog,
		validator: validate,
		client:    client,
		proxy:     proxy.New(cfg.Backend, nil, logger.Component(zlog, "proxy")).WithObserver(m),
		guard:     guard.New(table),
		metrics:   m,
		pages:     pages.NewHandler(client, renderer, validate, logger.Component(zlog, "pages")),
		admin:     admin.NewHandler(client, renderer, validate, logger.Component(zlog, "admin")),
		probe:     probe.New(checkBackend, cfg.Backend.Configured(), logger.Component(zlog, "probe")).WithObserver(m),
		version:   version,
	}

	server.setupRouter()

	return server, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	if s.config.Server.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(s.metrics.Middleware())

	// CORS middleware, skipped when no origin is allowed
	if len(s.config.Server.AllowedOrigins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins:     s.config.Server.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Operational endpoints
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	// Backend proxy, unguarded: the backend enforces its own auth
	s.proxy.Register(s.router)

	// Session endpoints
	authRoutes := s.router.Group("/api/auth")
	{
		authRoutes.POST("/login", s.login)
		authRoutes.POST("/logout", s.logout)
		authRoutes.POST("/register", s.register)
	}

	// Pages, all behind the route guard
	site := s.router.Group("/")
	site.Use(s.guard.Middleware(logger.Component(s.logger, "guard"), s.metrics))
	{
		s.pages.Register(site)
		s.admin.Register(site.Group("/admin"))
	}

	s.router.NoRoute(s.guard.Middleware(logger.Component(s.logger, "guard"), s.metrics), s.pages.NotFound)
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "storefront",
		"version":   s.version,
		"backend":   s.probe.Status(),
	})
}

// Start starts the HTTP server and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	addr := ":" + s.config.Server.Port

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       300 * time.Second,
	}

	if schedule := s.config.Server.ProbeSchedule; schedule != "" && schedule != "off" {
		if err := s.probe.Start(schedule); err != nil {
			return err
		}
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		s.probe.Stop(context.Background())
		return fmt.Errorf("http server failed: %w", err)
	case <-sigChan:
		s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	s.probe.Stop(shutdownCtx)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
