// Package gin provides the HTTP server, middleware, and health endpoints
// for the review-responder API.
package gin

import (
	"net/http"
	"time"
)

// Default timeout values for HTTP server configuration.
const (
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultCORSMaxAge      = 12 * time.Hour
)

// Config holds the HTTP server configuration.
type Config struct {
	Port  int
	Debug bool

	// WriteTimeout must exceed the worst-case model latency of a regenerate
	// request: up to three draft calls plus one verify call.
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	CORS CORSConfig

	ServiceName    string
	ServiceVersion string
}

// CORSConfig holds the CORS middleware configuration.
type CORSConfig struct {
	Enabled bool

	// AllowedOrigins may contain "*" to allow every origin.
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// SetDefaults applies default values to the config where values are not set.
func (c *Config) SetDefaults() {
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "1.0.0"
	}

	c.CORS.SetDefaults()
}

// SetDefaults applies default values to the CORS config where values are not set.
func (c *CORSConfig) SetDefaults() {
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{
			"Origin",
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"X-Request-ID",
		}
	}
	if c.MaxAge == 0 {
		c.MaxAge = DefaultCORSMaxAge
	}
}

// NewConfig creates a Config with defaults and CORS enabled.
func NewConfig(serviceName string, port int) *Config {
	cfg := &Config{
		Port:        port,
		ServiceName: serviceName,
		CORS:        CORSConfig{Enabled: true},
	}
	cfg.SetDefaults()
	return cfg
}
