// Package bootstrap handles application initialization and lifecycle management
// for the review-responder service.
package bootstrap

import (
	"context"
	"fmt"

	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
)

// Start initializes and runs the HTTP service until it is signalled to stop.
func Start(ctx context.Context, configPath string) error {
	// Phase 1: Load config and create logger
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting Review Responder Service",
		infralogger.String("name", cfg.Service.Name),
		infralogger.String("version", cfg.Service.Version),
		infralogger.Int("port", cfg.Service.Port),
		infralogger.String("program_version", cfg.Service.ProgramVersion),
	)

	// Phase 2: Profiling
	stopProfiling := StartProfiling(cfg, log)
	defer stopProfiling()

	// Phase 3: Providers, cache, history and the controller
	app, err := Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	// Phase 4: Setup and run HTTP server
	server := SetupHTTPServer(cfg, app, log)
	if runErr := server.RunWithGracefulShutdown(ctx); runErr != nil {
		log.Error("Server error", infralogger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Review Responder Service stopped")
	return nil
}
