package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// TestRateLimiterBurst verifies the bucket allows exactly the burst
// before refusing.
func TestRateLimiterBurst(t *testing.T) {
	limiter := NewRateLimiter(60, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.TryAcquire(), "request %d should pass", i)
	}
	assert.False(t, limiter.TryAcquire())
	assert.Equal(t, 0, limiter.Remaining())
}

// TestRateLimiterDefaults verifies non-positive settings fall back to
// working defaults.
func TestRateLimiterDefaults(t *testing.T) {
	limiter := NewRateLimiter(0, 0)
	assert.True(t, limiter.TryAcquire())
	assert.Equal(t, 19, limiter.Remaining())
}

// TestRateLimitMiddleware verifies drained buckets produce 429 with a
// Retry-After header.
func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(60, 1)
	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}
