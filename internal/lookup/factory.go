package lookup

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"gstrelay/internal/config"
	"gstrelay/internal/constants"
	"gstrelay/internal/logger"
	"gstrelay/pkg/circuitbreaker"
)

// NewProvider assembles the configured provider chain:
// cache (when rdb is non-nil) -> circuit breaker (when enabled) -> mock or api.
func NewProvider(cfg *config.Config, rdb *redis.Client, log logger.Logger) (Provider, error) {
	var base Provider
	switch strings.ToLower(cfg.Lookup.Provider) {
	case constants.ProviderMock, "":
		base = NewMockProvider(cfg.Lookup.Mock.Delay)
	case constants.ProviderAPI:
		base = NewAPIProvider(cfg.Lookup.API.URL, cfg.Lookup.API.APIKey, &http.Client{
			Timeout: cfg.Lookup.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown lookup provider: %s", cfg.Lookup.Provider)
	}

	provider := base
	if cfg.CircuitBreaker.Enabled {
		provider = NewCircuitBreakerProvider(provider, circuitbreaker.FromSettings("gst-lookup", cfg.CircuitBreaker))
		log.Infow("Circuit breaker enabled for lookup provider", "provider", cfg.Lookup.Provider)
	}

	if rdb != nil {
		ttl := time.Duration(cfg.Lookup.Cache.TTLSeconds) * time.Second
		provider = NewCacheProvider(rdb, provider, ttl, log)
		log.Infow("Lookup cache enabled", "ttl", ttl)
	}

	return provider, nil
}
