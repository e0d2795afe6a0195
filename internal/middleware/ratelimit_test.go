package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func limitedRouter(rl *RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(rl.Middleware())
	router.POST("/auth/login", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	return router
}

func TestRateLimit_AllowsNormalRequests(t *testing.T) {
	router := limitedRouter(NewRateLimiter(10, 20))

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/auth/login", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("request %d: expected status %d, got %d", i, http.StatusOK, w.Code)
		}
	}
}

func TestRateLimit_BlocksExcessiveRequests(t *testing.T) {
	// 1 request per second with burst of 2.
	router := limitedRouter(NewRateLimiter(1, 2))

	var blocked int
	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/auth/login", nil)
		req.RemoteAddr = "192.168.1.2:12345"
		router.ServeHTTP(w, req)

		if w.Code == http.StatusTooManyRequests {
			blocked++
		}
	}

	if blocked == 0 {
		t.Error("expected some requests to be rate limited")
	}
}

func TestRateLimit_IndependentPerIP(t *testing.T) {
	router := limitedRouter(NewRateLimiter(1, 1))

	// Exhaust the budget for the first IP.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:1111"
	router.ServeHTTP(w, req)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:1111"
	router.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("first IP second request: expected %d, got %d", http.StatusTooManyRequests, w.Code)
	}

	// A different IP still has its own budget.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/auth/login", nil)
	req.RemoteAddr = "10.0.0.2:2222"
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("second IP: expected %d, got %d", http.StatusOK, w.Code)
	}
}
