package gin

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
)

// RequestIDHeader carries the correlation id in and out of the service.
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// RequestIDLoggerMiddleware takes the request id from X-Request-ID or
// generates one, echoes it on the response, and stores a logger carrying it
// in the request context.
func RequestIDLoggerMiddleware(log infralogger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if requestID == "" {
			requestID = strings.ReplaceAll(uuid.NewString(), "-", "")
		}

		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		reqLog := log.With(infralogger.RequestID(requestID))
		c.Request = c.Request.WithContext(infralogger.WithContext(c.Request.Context(), reqLog))

		c.Next()
	}
}

// RequestID returns the id set by RequestIDLoggerMiddleware, if any.
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// LoggerMiddleware logs one line per request.
func LoggerMiddleware(log infralogger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []infralogger.Field{
			infralogger.String("method", c.Request.Method),
			infralogger.String("path", path),
			infralogger.Int("status", c.Writer.Status()),
			infralogger.Duration("duration", time.Since(start)),
			infralogger.String("client_ip", c.ClientIP()),
		}
		if id := RequestID(c); id != "" {
			fields = append(fields, infralogger.RequestID(id))
		}

		if len(c.Errors) > 0 {
			errorMessages := make([]string, len(c.Errors))
			for i, err := range c.Errors {
				errorMessages[i] = err.Err.Error()
			}
			fields = append(fields, infralogger.Strings("errors", errorMessages))
			log.Error("HTTP request with errors", fields...)
			return
		}

		if strings.HasPrefix(path, "/health") {
			log.Debug("HTTP request", fields...)
			return
		}
		log.Info("HTTP request", fields...)
	}
}

// CORSMiddleware handles Cross-Origin Resource Sharing.
func CORSMiddleware(cfg CORSConfig) gin.HandlerFunc {
	cfg.SetDefaults()

	allowedMethods := strings.Join(cfg.AllowedMethods, ", ")
	allowedHeaders := strings.Join(cfg.AllowedHeaders, ", ")
	allowCredentials := strconv.FormatBool(cfg.AllowCredentials)
	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		allowedOrigin := determineAllowedOrigin(c.Request.Header.Get("Origin"), cfg.AllowedOrigins)
		if allowedOrigin == "" {
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", allowedOrigin)
		h.Set("Access-Control-Allow-Credentials", allowCredentials)
		h.Set("Access-Control-Allow-Methods", allowedMethods)
		h.Set("Access-Control-Allow-Headers", allowedHeaders)
		h.Set("Access-Control-Max-Age", maxAge)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// determineAllowedOrigin returns the origin to echo, or "" when not allowed.
func determineAllowedOrigin(origin string, allowedOrigins []string) string {
	if origin == "" {
		return "*"
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			return "*"
		}
		if allowed == origin {
			return origin
		}
	}
	return ""
}

// RecoveryMiddleware turns panics into the service's INTERNAL_ERROR body.
func RecoveryMiddleware(log infralogger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered",
					infralogger.Any("error", err),
					infralogger.String("path", c.Request.URL.Path),
					infralogger.String("method", c.Request.Method),
					infralogger.String("client_ip", c.ClientIP()),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "INTERNAL_ERROR",
					"message": "Unhandled server error",
				})
			}
		}()

		c.Next()
	}
}
