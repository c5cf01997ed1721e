package gin

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus represents the status of a health check.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the /health response body.
type HealthResponse struct {
	Status  HealthStatus           `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Uptime  string                 `json:"uptime,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult represents the result of an individual health check.
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// HealthChecker performs one dependency check.
type HealthChecker func() CheckResult

var healthState = struct {
	sync.Once
	startTime time.Time
}{}

// RegisterHealthRoutes adds GET and HEAD /health. Unhealthy checks turn the
// response into a 503; degraded checks do not.
func RegisterHealthRoutes(router *gin.Engine, serviceName, version string, checks map[string]HealthChecker) {
	healthState.Do(func() {
		healthState.startTime = time.Now()
	})

	router.GET("/health", healthHandler(serviceName, version, checks))
	router.HEAD("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
}

func healthHandler(serviceName, version string, checks map[string]HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthResponse{
			Status:  HealthStatusHealthy,
			Service: serviceName,
			Version: version,
			Uptime:  time.Since(healthState.startTime).Truncate(time.Second).String(),
		}

		if len(checks) > 0 {
			response.Checks = make(map[string]CheckResult, len(checks))
			for name, checker := range checks {
				result := checker()
				response.Checks[name] = result

				switch {
				case result.Status == HealthStatusUnhealthy:
					response.Status = HealthStatusUnhealthy
				case result.Status == HealthStatusDegraded && response.Status == HealthStatusHealthy:
					response.Status = HealthStatusDegraded
				}
			}
		}

		statusCode := http.StatusOK
		if response.Status == HealthStatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, response)
	}
}

// pingChecker builds a checker that reports failureStatus when ping fails.
func pingChecker(name string, ping func() error, failureStatus HealthStatus) HealthChecker {
	return func() CheckResult {
		start := time.Now()
		err := ping()
		latency := time.Since(start).String()

		if err != nil {
			return CheckResult{Status: failureStatus, Message: name + " connection failed", Latency: latency}
		}
		return CheckResult{Status: HealthStatusHealthy, Message: name + " connection OK", Latency: latency}
	}
}

// DatabaseHealthChecker reports the history database. The database only
// stores history, so an outage degrades the service rather than failing it.
func DatabaseHealthChecker(ping func() error) HealthChecker {
	return pingChecker("Database", ping, HealthStatusDegraded)
}

// RedisHealthChecker reports the provider cache.
func RedisHealthChecker(ping func() error) HealthChecker {
	return pingChecker("Redis", ping, HealthStatusDegraded)
}
