package gin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
)

// Server represents an HTTP server with lifecycle management.
type Server struct {
	router *gin.Engine
	server *http.Server
	logger infralogger.Logger
	config *Config
}

// NewServer creates the server. setupRoutes runs after the standard
// middleware is installed.
func NewServer(cfg *Config, log infralogger.Logger, setupRoutes func(*gin.Engine)) *Server {
	cfg.SetDefaults()

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Recovery first so panics in later middleware are caught.
	router.Use(RecoveryMiddleware(log))
	router.Use(RequestIDLoggerMiddleware(log))
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.CORS))

	if setupRoutes != nil {
		setupRoutes(router)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{
		router: router,
		server: httpServer,
		logger: log,
		config: cfg,
	}
}

// Router returns the underlying Gin engine.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start blocks serving HTTP until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		infralogger.String("address", s.server.Addr),
		infralogger.String("service", s.config.ServiceName),
		infralogger.String("version", s.config.ServiceVersion),
		infralogger.Duration("write_timeout", s.server.WriteTimeout),
	)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server with the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server",
		infralogger.Duration("timeout", s.config.ShutdownTimeout),
	)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}

// RunWithGracefulShutdown serves until SIGINT, SIGTERM, or ctx is done, then
// shuts down.
func (s *Server) RunWithGracefulShutdown(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		s.logger.Info("Shutdown signal received", infralogger.String("signal", sig.String()))
	case <-ctx.Done():
		s.logger.Info("Context cancelled, shutting down")
	}

	//nolint:contextcheck // the parent context may already be cancelled
	return s.Shutdown(context.WithoutCancel(ctx))
}
