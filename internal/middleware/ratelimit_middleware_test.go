package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func rateLimitedRouter(limiter *IPRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/submit", RateLimitMiddleware(limiter), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router
}

func TestRateLimitMiddlewareBlocksAfterBurst(t *testing.T) {
	router := rateLimitedRouter(NewIPRateLimiter(rate.Limit(0), 2))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.RemoteAddr = "192.0.2.10:1234"
		router.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	if statuses[0] != http.StatusCreated || statuses[1] != http.StatusCreated {
		t.Errorf("requests within burst should pass, got %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("request beyond burst should get 429, got %d", statuses[2])
	}
}

func TestRateLimitMiddlewareIsolatesIPs(t *testing.T) {
	router := rateLimitedRouter(NewIPRateLimiter(rate.Limit(0), 1))

	first := httptest.NewRecorder()
	reqA := httptest.NewRequest(http.MethodPost, "/submit", nil)
	reqA.RemoteAddr = "192.0.2.10:1234"
	router.ServeHTTP(first, reqA)

	second := httptest.NewRecorder()
	reqB := httptest.NewRequest(http.MethodPost, "/submit", nil)
	reqB.RemoteAddr = "192.0.2.20:1234"
	router.ServeHTTP(second, reqB)

	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Errorf("distinct IPs must not share a bucket, got %d and %d", first.Code, second.Code)
	}
}
