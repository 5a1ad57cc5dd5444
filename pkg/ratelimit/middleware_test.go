package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"gstrelay/internal/config"
)

func TestFromSettings(t *testing.T) {
	cfg := FromSettings(config.RateLimitConfig{RPS: 2, Burst: 3, CleanupInterval: 60, MaxAge: 120})
	assert.Equal(t, 2.0, cfg.RPS)
	assert.Equal(t, 3, cfg.Burst)
	assert.Equal(t, time.Minute, cfg.CleanupInterval)
	assert.Equal(t, 2*time.Minute, cfg.MaxAge)

	assert.Equal(t, DefaultConfig(), FromSettings(config.RateLimitConfig{}))
}

func TestMiddleware_LimitsPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := NewStore(RateLimitConfig{RPS: 0.001, Burst: 2, CleanupInterval: time.Minute, MaxAge: time.Minute})
	r := gin.New()
	r.Use(Middleware(store))
	r.POST("/webhook", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestStore_Cleanup(t *testing.T) {
	store := NewStore(RateLimitConfig{RPS: 1, Burst: 1, CleanupInterval: time.Minute, MaxAge: time.Minute})
	store.Allow("10.0.0.1")
	assert.Equal(t, 1, store.size())

	store.cleanup(time.Now())
	assert.Equal(t, 1, store.size())

	store.cleanup(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, store.size())
}

func TestAckMiddleware_DropsWithOK(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := NewStore(RateLimitConfig{RPS: 0.001, Burst: 1, CleanupInterval: time.Minute, MaxAge: time.Minute})
	handled := 0
	r := gin.New()
	r.Use(AckMiddleware(store))
	r.POST("/webhook", func(c *gin.Context) {
		handled++
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 1, handled)
}
