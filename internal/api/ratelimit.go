package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a token-bucket limiter shared by every API route.
// Report generation over a large dataset is CPU-bound, so the bucket
// protects the engine rather than the transport.
type RateLimiter struct {
	requestsPerMinute int
	burstSize         int

	tokens     int
	lastRefill time.Time
	refillRate float64
	mutex      sync.Mutex
}

// NewRateLimiter creates a limiter allowing requestsPerMinute sustained
// requests with bursts up to burstSize. Non-positive values fall back
// to 120 rpm with a burst of 20.
func NewRateLimiter(requestsPerMinute, burstSize int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 120
	}
	if burstSize <= 0 {
		burstSize = 20
	}

	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		burstSize:         burstSize,
		tokens:            burstSize,
		lastRefill:        time.Now(),
		refillRate:        float64(requestsPerMinute) / 60.0,
	}
}

// TryAcquire consumes a token when one is available.
func (r *RateLimiter) TryAcquire() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.refillTokens()

	if r.tokens > 0 {
		r.tokens--
		return true
	}
	return false
}

// Remaining reports the currently available tokens.
func (r *RateLimiter) Remaining() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.refillTokens()
	return r.tokens
}

func (r *RateLimiter) refillTokens() {
	now := time.Now()
	elapsed := now.Sub(r.lastRefill)

	tokensToAdd := int(elapsed.Seconds() * r.refillRate)
	if tokensToAdd > 0 {
		r.tokens = minInt(r.tokens+tokensToAdd, r.burstSize)
		r.lastRefill = now
	}
}

// Middleware rejects requests with 429 once the bucket is drained.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.TryAcquire() {
			retryAfter := time.Duration(float64(time.Second) / r.refillRate)
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
