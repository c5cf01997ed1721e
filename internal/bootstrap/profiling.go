package bootstrap

import (
	"context"
	"time"

	"github.com/jonesrussell/north-cloud/review-responder/internal/config"
	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/profiling"
)

const pprofShutdownTimeout = 5 * time.Second

// StartProfiling starts pprof and Pyroscope when enabled. The returned func
// stops whatever was started.
func StartProfiling(cfg *config.Config, log infralogger.Logger) func() {
	var stops []func()

	if cfg.Profiling.PprofEnabled {
		srv := profiling.StartPprofServer(cfg.Profiling.PprofPort, log)
		stops = append(stops, func() {
			ctx, cancel := context.WithTimeout(context.Background(), pprofShutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(ctx)
		})
	}

	if cfg.Profiling.PyroscopeEnabled {
		profiler, err := profiling.StartPyroscope(profiling.PyroscopeConfig{
			ServiceName: cfg.Service.Name,
			Version:     cfg.Service.Version,
			ServerURL:   cfg.Profiling.PyroscopeURL,
			Environment: cfg.Profiling.Environment,
		}, log)
		if err != nil {
			log.Warn("Failed to start continuous profiling", infralogger.Error(err))
		} else {
			stops = append(stops, func() { _ = profiler.Stop() })
		}
	}

	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}
