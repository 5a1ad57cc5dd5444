package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"gstrelay/internal/config"
	"gstrelay/pkg/metrics"
)

type Limiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	mu       sync.Mutex
}

type RateLimitConfig struct {
	RPS             float64
	Burst           int
	CleanupInterval time.Duration
	MaxAge          time.Duration
}

func DefaultConfig() RateLimitConfig {
	return RateLimitConfig{
		RPS:             10.0,
		Burst:           20,
		CleanupInterval: 5 * time.Minute,
		MaxAge:          10 * time.Minute,
	}
}

// FromSettings converts the webhook settings (intervals in seconds), keeping defaults for zero values.
func FromSettings(cfg config.RateLimitConfig) RateLimitConfig {
	out := DefaultConfig()
	if cfg.RPS > 0 {
		out.RPS = cfg.RPS
	}
	if cfg.Burst > 0 {
		out.Burst = cfg.Burst
	}
	if cfg.CleanupInterval > 0 {
		out.CleanupInterval = time.Duration(cfg.CleanupInterval) * time.Second
	}
	if cfg.MaxAge > 0 {
		out.MaxAge = time.Duration(cfg.MaxAge) * time.Second
	}
	return out
}

// Store keeps one token bucket per client IP.
type Store struct {
	config   RateLimitConfig
	mu       sync.RWMutex
	limiters map[string]*Limiter
}

func NewStore(cfg RateLimitConfig) *Store {
	return &Store{
		config:   cfg,
		limiters: make(map[string]*Limiter),
	}
}

func (s *Store) get(ip string) *Limiter {
	s.mu.RLock()
	limiter, exists := s.limiters[ip]
	s.mu.RUnlock()
	if exists {
		return limiter
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if limiter, exists = s.limiters[ip]; !exists {
		limiter = &Limiter{
			limiter:  rate.NewLimiter(rate.Limit(s.config.RPS), s.config.Burst),
			lastSeen: time.Now(),
		}
		s.limiters[ip] = limiter
	}
	return limiter
}

// Allow consumes one token for ip and reports whether the request may proceed.
func (s *Store) Allow(ip string) (allowed bool, remaining int) {
	limiter := s.get(ip)

	limiter.mu.Lock()
	limiter.lastSeen = time.Now()
	limiter.mu.Unlock()

	if !limiter.limiter.Allow() {
		return false, 0
	}
	remaining = int(limiter.limiter.Tokens())
	if remaining < 0 {
		remaining = 0
	}
	return true, remaining
}

func (s *Store) cleanup(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ip, limiter := range s.limiters {
		limiter.mu.Lock()
		lastSeen := limiter.lastSeen
		limiter.mu.Unlock()
		if now.Sub(lastSeen) > s.config.MaxAge {
			delete(s.limiters, ip)
		}
	}
}

func (s *Store) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.limiters)
}

// RunCleanup evicts idle limiters until ctx is done.
func (s *Store) RunCleanup(ctx context.Context) {
	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.cleanup(now)
		}
	}
}

// Middleware limits requests per client IP and answers 429 when exhausted.
// Run store.RunCleanup alongside it.
func Middleware(store *Store) gin.HandlerFunc {
	return limit(store, func(c *gin.Context) {
		metrics.RateLimitRequestsTotal.WithLabelValues("limited").Inc()
		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":      "rate limit exceeded",
			"error_code": "RATE_LIMIT_EXCEEDED",
		})
	})
}

// AckMiddleware limits platform callbacks that must always be acknowledged:
// a limited request gets an empty 200 and never reaches the handler.
func AckMiddleware(store *Store) gin.HandlerFunc {
	return limit(store, func(c *gin.Context) {
		metrics.RateLimitRequestsTotal.WithLabelValues("dropped").Inc()
		c.AbortWithStatus(http.StatusOK)
	})
}

func limit(store *Store, onLimited gin.HandlerFunc) gin.HandlerFunc {
	rps := strconv.Itoa(int(store.config.RPS))

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = c.RemoteIP()
		}

		allowed, remaining := store.Allow(clientIP)
		c.Header("X-RateLimit-Limit", rps)

		if !allowed {
			c.Header("X-RateLimit-Remaining", "0")
			onLimited(c)
			return
		}

		metrics.RateLimitRequestsTotal.WithLabelValues("allowed").Inc()
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Next()
	}
}
