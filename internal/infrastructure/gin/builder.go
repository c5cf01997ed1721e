package gin

import (
	"time"

	"github.com/gin-gonic/gin"

	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
)

// ServerBuilder provides a fluent API for building HTTP servers.
type ServerBuilder struct {
	config       *Config
	logger       infralogger.Logger
	setupRoutes  func(*gin.Engine)
	healthChecks map[string]HealthChecker
}

// NewServerBuilder creates a new server builder.
func NewServerBuilder(serviceName string, port int) *ServerBuilder {
	return &ServerBuilder{
		config:       NewConfig(serviceName, port),
		healthChecks: make(map[string]HealthChecker),
	}
}

// WithLogger sets the logger.
func (b *ServerBuilder) WithLogger(log infralogger.Logger) *ServerBuilder {
	b.logger = log
	return b
}

// WithDebug enables or disables debug mode.
func (b *ServerBuilder) WithDebug(debug bool) *ServerBuilder {
	b.config.Debug = debug
	return b
}

// WithVersion sets the service version.
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.config.ServiceVersion = version
	return b
}

// WithTimeouts sets the read, write, and idle timeouts.
func (b *ServerBuilder) WithTimeouts(read, write, idle time.Duration) *ServerBuilder {
	b.config.ReadTimeout = read
	b.config.WriteTimeout = write
	b.config.IdleTimeout = idle
	return b
}

// WithDatabaseHealthCheck adds a database health check.
func (b *ServerBuilder) WithDatabaseHealthCheck(ping func() error) *ServerBuilder {
	b.healthChecks["database"] = DatabaseHealthChecker(ping)
	return b
}

// WithRedisHealthCheck adds a Redis health check.
func (b *ServerBuilder) WithRedisHealthCheck(ping func() error) *ServerBuilder {
	b.healthChecks["redis"] = RedisHealthChecker(ping)
	return b
}

// WithRoutes sets the route setup function.
func (b *ServerBuilder) WithRoutes(setupRoutes func(*gin.Engine)) *ServerBuilder {
	b.setupRoutes = setupRoutes
	return b
}

// Build creates the server with health routes and the service routes.
func (b *ServerBuilder) Build() *Server {
	if b.logger == nil {
		b.logger = infralogger.NewNop()
	}

	wrappedSetup := func(router *gin.Engine) {
		RegisterHealthRoutes(router, b.config.ServiceName, b.config.ServiceVersion, b.healthChecks)
		if b.setupRoutes != nil {
			b.setupRoutes(router)
		}
	}

	return NewServer(b.config, b.logger, wrappedSetup)
}
