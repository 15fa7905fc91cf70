package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func rateLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(rl.Handler())
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/", ok)
	r.GET("/health", ok)
	r.GET("/api/resource", ok)
	return r
}

func hit(r *gin.Engine, path string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "203.0.113.9:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	r := rateLimitedRouter(NewRateLimiter(0, 2))

	assert.Equal(t, http.StatusOK, hit(r, "/api/resource"))
	assert.Equal(t, http.StatusOK, hit(r, "/api/resource"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "/api/resource"))
}

func TestRateLimiterExemptsHealthPaths(t *testing.T) {
	r := rateLimitedRouter(NewRateLimiter(0, 0))

	assert.Equal(t, http.StatusOK, hit(r, "/"))
	assert.Equal(t, http.StatusOK, hit(r, "/health"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "/api/resource"))
}

func TestRateLimiterTracksIPsSeparately(t *testing.T) {
	rl := NewRateLimiter(0, 1)
	r := rateLimitedRouter(rl)

	first := httptest.NewRequest(http.MethodGet, "/api/resource", nil)
	first.RemoteAddr = "198.51.100.1:1000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, first)
	assert.Equal(t, http.StatusOK, w.Code)

	second := httptest.NewRequest(http.MethodGet, "/api/resource", nil)
	second.RemoteAddr = "198.51.100.2:1000"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, second)
	assert.Equal(t, http.StatusOK, w.Code)
}
