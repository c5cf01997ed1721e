package profiling

import (
	"fmt"
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"

	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
)

// PyroscopeConfig configures continuous profiling.
type PyroscopeConfig struct {
	ServiceName string
	Version     string
	ServerURL   string
	Environment string
}

// PyroscopeProfiler holds the Pyroscope profiler instance.
type PyroscopeProfiler struct {
	profiler *pyroscope.Profiler
}

// StartPyroscope starts continuous profiling.
func StartPyroscope(cfg PyroscopeConfig, log infralogger.Logger) (*PyroscopeProfiler, error) {
	appName := "north-cloud." + cfg.ServiceName

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   cfg.ServerURL,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
		Tags: map[string]string{
			"environment": cfg.Environment,
			"version":     cfg.Version,
			"hostname":    hostname(),
			"go_version":  runtime.Version(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start Pyroscope profiler: %w", err)
	}

	log.Info("Pyroscope continuous profiling started",
		infralogger.String("application", appName),
		infralogger.String("server", cfg.ServerURL),
		infralogger.String("environment", cfg.Environment),
	)

	return &PyroscopeProfiler{profiler: profiler}, nil
}

// Stop stops the profiler. It is safe on a nil receiver.
func (p *PyroscopeProfiler) Stop() error {
	if p == nil || p.profiler == nil {
		return nil
	}
	return p.profiler.Stop()
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
