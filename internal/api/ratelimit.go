package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// errorCodeRateLimited is returned when the API's own limiter rejects a call.
const errorCodeRateLimited = "RATE_LIMITED"

// limiterIdleTTL is how long an unused client bucket is kept.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware applies a token bucket per client IP.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	clients := make(map[string]*clientLimiter)
	lastSweep := time.Now()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		// An evicted client starts over with a full bucket.
		if now.Sub(lastSweep) > limiterIdleTTL {
			for key, entry := range clients {
				if now.Sub(entry.lastSeen) > limiterIdleTTL {
					delete(clients, key)
				}
			}
			lastSweep = now
		}

		entry, exists := clients[ip]
		if !exists {
			entry = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
			clients[ip] = entry
		}
		entry.lastSeen = now
		allowed := entry.limiter.AllowN(now, 1)
		mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error:   errorCodeRateLimited,
				Message: "Too many requests",
			})
			return
		}
		c.Next()
	}
}
