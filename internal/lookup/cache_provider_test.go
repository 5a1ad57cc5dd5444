package lookup

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstrelay/internal/logger"
)

func TestCacheProvider_FallsThroughWhenRedisDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	calls := 0
	inner := ProviderFunc(func(ctx context.Context, id string) (*StatusRecord, error) {
		calls++
		return &StatusRecord{GSTIN: id, BusinessName: "ACME"}, nil
	})

	p := NewCacheProvider(client, inner, time.Minute, logger.NopLogger())
	rec, err := p.Lookup(context.Background(), testGSTIN)
	require.NoError(t, err)
	assert.Equal(t, "ACME", rec.BusinessName)
	assert.Equal(t, 1, calls)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "gstin:"+testGSTIN, cacheKey(testGSTIN))
}
