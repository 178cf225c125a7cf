package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func newLimiterRouter(t *testing.T) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRateLimiter(client)

	router := gin.New()
	router.GET("/ping", limiter.Limit("api", 3, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.POST("/login", limiter.LimitWithRefund("auth", 2, time.Minute), func(c *gin.Context) {
		if c.Query("ok") == "true" {
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusUnauthorized)
	})
	return router, mr
}

func hit(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "10.0.0.1:12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	router, _ := newLimiterRouter(t)

	for i := 0; i < 3; i++ {
		if w := hit(router, http.MethodGet, "/ping"); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}

	w := hit(router, http.MethodGet, "/ping")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header should be set")
	}
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	router, mr := newLimiterRouter(t)

	for i := 0; i < 3; i++ {
		hit(router, http.MethodGet, "/ping")
	}
	if w := hit(router, http.MethodGet, "/ping"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}

	mr.FastForward(2 * time.Minute)

	if w := hit(router, http.MethodGet, "/ping"); w.Code != http.StatusOK {
		t.Fatalf("status after window expiry = %d, want 200", w.Code)
	}
}

func TestRateLimiter_RefundOnSuccess(t *testing.T) {
	router, _ := newLimiterRouter(t)

	// Successful logins are refunded and never exhaust the budget.
	for i := 0; i < 5; i++ {
		if w := hit(router, http.MethodPost, "/login?ok=true"); w.Code != http.StatusOK {
			t.Fatalf("successful login %d status = %d, want 200", i+1, w.Code)
		}
	}

	// Failed attempts stick.
	for i := 0; i < 2; i++ {
		if w := hit(router, http.MethodPost, "/login"); w.Code != http.StatusUnauthorized {
			t.Fatalf("failed login %d status = %d, want 401", i+1, w.Code)
		}
	}
	if w := hit(router, http.MethodPost, "/login"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
}

func TestRateLimiter_NilClientPassthrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(nil)

	router := gin.New()
	router.GET("/open", limiter.Limit("api", 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 10; i++ {
		if w := hit(router, http.MethodGet, "/open"); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}
}
