package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"gstrelay/internal/constants"
	"gstrelay/internal/logger"
	"gstrelay/pkg/metrics"
)

// CacheProvider is a read-through redis cache in front of another provider.
// Only found records are cached; redis failures fall through to the provider.
type CacheProvider struct {
	client   *redis.Client
	provider Provider
	ttl      time.Duration
	logger   logger.Logger
}

func NewCacheProvider(client *redis.Client, provider Provider, ttl time.Duration, log logger.Logger) *CacheProvider {
	return &CacheProvider{
		client:   client,
		provider: provider,
		ttl:      ttl,
		logger:   log,
	}
}

func cacheKey(id string) string {
	return constants.CacheKeyPrefixGSTIN + id
}

func (p *CacheProvider) Lookup(ctx context.Context, id string) (*StatusRecord, error) {
	if record, ok := p.get(ctx, id); ok {
		return record, nil
	}

	record, err := p.provider.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	p.set(ctx, id, record)
	return record, nil
}

func (p *CacheProvider) get(ctx context.Context, id string) (*StatusRecord, bool) {
	val, err := p.client.Get(ctx, cacheKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		metrics.LookupCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		metrics.LookupCacheTotal.WithLabelValues("error").Inc()
		p.logger.WarnwCtx(ctx, "Lookup cache read failed, querying provider",
			"error", err,
		)
		return nil, false
	}

	var record StatusRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		metrics.LookupCacheTotal.WithLabelValues("error").Inc()
		p.logger.WarnwCtx(ctx, "Discarding undecodable cache entry",
			"error", err,
		)
		return nil, false
	}

	metrics.LookupCacheTotal.WithLabelValues("hit").Inc()
	return &record, true
}

func (p *CacheProvider) set(ctx context.Context, id string, record *StatusRecord) {
	body, err := json.Marshal(record)
	if err != nil {
		p.logger.WarnwCtx(ctx, "Failed to encode record for cache", "error", err)
		return
	}
	if err := p.client.Set(ctx, cacheKey(id), body, p.ttl).Err(); err != nil {
		p.logger.WarnwCtx(ctx, "Lookup cache write failed", "error", err)
	}
}
