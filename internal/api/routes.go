package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteOptions carries the middleware and extras mounted by SetupRoutes.
type RouteOptions struct {
	Auth           AuthConfig
	RateLimit      bool
	RequestsPerSec float64
	Burst          int
	// Metrics is mounted at GET /metrics when non-nil.
	Metrics http.Handler
}

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler, opts RouteOptions) {
	router.GET("/api/healthz", handler.Healthz)

	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware(opts.Auth), SubjectLoggerMiddleware())
	// Mounted after auth so rejected credentials never spend a client's budget.
	if opts.RateLimit {
		v1.Use(RateLimitMiddleware(opts.RequestsPerSec, opts.Burst))
	}
	{
		v1.POST("/review/process", handler.ProcessReview)
		v1.POST("/draft/generate", handler.GenerateDraft)
		v1.POST("/draft/verify", handler.VerifyDraft)

		if handler.history != nil {
			v1.GET("/reviews/:review_id/history", handler.ReviewHistory)
		}
	}
}
