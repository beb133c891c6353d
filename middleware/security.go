package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"region-feedback-server/logger"
	"region-feedback-server/utils"
)

const maxRequestBody = 1 << 20 // 1MB

// RateLimiter stores per-key token buckets with idle eviction
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	mutex    sync.Mutex
}

// NewRateLimiter creates a rate limiter registry
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
	}
}

// GetLimiter returns the limiter for a key, creating it with the given
// limits on first use
func (rl *RateLimiter) GetLimiter(key string, limit rate.Limit, burst int) *rate.Limiter {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(limit, burst)
		rl.limiters[key] = limiter
	}
	rl.lastSeen[key] = time.Now()
	return limiter
}

// Cleanup evicts limiters idle for more than an hour
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	for key, t := range rl.lastSeen {
		if now.Sub(t) > time.Hour {
			delete(rl.limiters, key)
			delete(rl.lastSeen, key)
		}
	}
}

var globalRateLimiter = NewRateLimiter()

func init() {
	go func() {
		for range time.Tick(10 * time.Minute) {
			globalRateLimiter.Cleanup()
		}
	}()
}

// RateLimit limits each client IP per route. Login and refresh get tighter
// budgets than the rest of the surface.
func RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		key := path + "|" + c.ClientIP()

		var limit rate.Limit
		var burst int
		switch {
		case strings.HasSuffix(path, "/auth/login"):
			limit = rate.Every(time.Minute / 5)
			burst = 5
		case strings.HasSuffix(path, "/auth/refresh"):
			limit = rate.Every(time.Minute / 10)
			burst = 10
		default:
			limit = rate.Every(time.Minute / 120)
			burst = 60
		}

		if !globalRateLimiter.GetLimiter(key, limit, burst).Allow() {
			logger.Log.Warn().
				Str("path", path).
				Str("ip", c.ClientIP()).
				Msg("Rate limit exceeded")
			utils.AbortError(c, http.StatusTooManyRequests, "Too many requests")
			return
		}

		c.Next()
	}
}

// SecurityHeaders adds standard response hardening headers
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	}
}

// RequestSizeLimit rejects oversized request bodies before binding
func RequestSizeLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxRequestBody {
			utils.AbortError(c, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody)
		c.Next()
	}
}

// RequestID tags every request with an ID for log correlation. An inbound
// X-Request-ID is trusted so callers can trace across services.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// RequestLogger emits one structured line per request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := logger.Log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = logger.Log.Error()
		} else if c.Writer.Status() >= http.StatusBadRequest {
			event = logger.Log.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", c.GetString("request_id")).
			Msg("Request handled")
	}
}
