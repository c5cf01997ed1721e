package bootstrap

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/review-responder/internal/api"
	"github.com/jonesrussell/north-cloud/review-responder/internal/config"
	infragin "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/gin"
	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
)

// Provider calls may retry, so writes get more room than reads.
const (
	httpReadTimeout   = 15 * time.Second
	httpWriteTimeout  = 120 * time.Second
	httpIdleTimeout   = 60 * time.Second
	healthPingTimeout = 2 * time.Second
)

// SetupHTTPServer creates and configures the HTTP server.
func SetupHTTPServer(cfg *config.Config, app *Components, log infralogger.Logger) *infragin.Server {
	var history api.HistoryReader
	if app.History != nil {
		history = app.History
	}
	handler := api.NewHandler(app.Service, history, cfg.Service.Version, log)

	builder := infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithTimeouts(httpReadTimeout, httpWriteTimeout, httpIdleTimeout).
		WithRoutes(func(router *gin.Engine) {
			api.SetupRoutes(router, handler, api.RouteOptions{
				Auth: api.AuthConfig{
					ServiceToken: cfg.Auth.ServiceToken,
					JWTSecret:    cfg.Auth.JWTSecret,
				},
				RateLimit:      cfg.RateLimit.Enabled,
				RequestsPerSec: cfg.RateLimit.RequestsPerSecond,
				Burst:          cfg.RateLimit.Burst,
				Metrics:        app.Telemetry.Handler(),
			})
		})

	if app.DB != nil {
		builder = builder.WithDatabaseHealthCheck(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), healthPingTimeout)
			defer cancel()
			return app.DB.PingContext(ctx)
		})
	}
	if app.Redis != nil {
		builder = builder.WithRedisHealthCheck(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), healthPingTimeout)
			defer cancel()
			return app.Redis.Ping(ctx).Err()
		})
	}

	return builder.Build()
}
