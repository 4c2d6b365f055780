package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter implements a simple in-memory rate limiter using token bucket algorithm
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*client
	limit       int
	window      time.Duration
	cleanupTick time.Duration
}

type client struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:     make(map[string]*client),
		limit:       limit,
		window:      window,
		cleanupTick: window * 2,
	}
	go rl.cleanup()
	return rl
}

// cleanup removes expired clients periodically
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTick)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, c := range rl.clients {
			if now.Sub(c.lastReset) > rl.window*2 {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow checks if a request from the given key should be allowed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, exists := rl.clients[key]

	if !exists {
		rl.clients[key] = &client{
			tokens:    rl.limit - 1,
			lastReset: now,
		}
		return true
	}

	if now.Sub(c.lastReset) >= rl.window {
		c.tokens = rl.limit - 1
		c.lastReset = now
		return true
	}

	if c.tokens > 0 {
		c.tokens--
		return true
	}

	return false
}

// Remaining returns the number of remaining requests for the given key
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, exists := rl.clients[key]
	if !exists {
		return rl.limit
	}
	if time.Since(c.lastReset) >= rl.window {
		return rl.limit
	}
	return c.tokens
}

// RateLimit returns a rate limiting middleware keyed by client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "RATE_LIMIT_EXCEEDED",
					"message": "Too many requests. Please try again later.",
				},
			})
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", limiter.Remaining(key)))

		c.Next()
	}
}
