package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/roomsense/occupancy-backend-go/pkg/response"
)

// RateLimiter hands out one token-bucket limiter per client IP. On the
// refresh route it acts as the trigger-layer debounce; the orchestrator's
// in-flight guard stays the authoritative concurrency control.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	seen     map[string]time.Time
	limit    rate.Limit
	burst    int
}

// NewRateLimiter allows perMinute requests per IP with a small burst.
func NewRateLimiter(perMinute int) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		seen:     make(map[string]time.Time),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute/4 + 1,
	}
	go rl.cleanup()
	return rl
}

// cleanup drops limiters for IPs idle longer than ten minutes.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-10 * time.Minute)
		for ip, last := range rl.seen {
			if last.Before(cutoff) {
				delete(rl.seen, ip)
				delete(rl.limiters, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow checks if a request from the given IP is allowed
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	limiter, ok := rl.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[ip] = limiter
	}
	rl.seen[ip] = time.Now()
	rl.mu.Unlock()
	return limiter.Allow()
}

// RateLimit middleware limits requests per IP
func RateLimit(perMinute int) gin.HandlerFunc {
	limiter := NewRateLimiter(perMinute)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			c.Abort()
			return
		}
		c.Next()
	}
}
