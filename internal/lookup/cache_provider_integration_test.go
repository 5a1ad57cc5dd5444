//go:build integration

package lookup

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	redismodule "github.com/testcontainers/testcontainers-go/modules/redis"

	"gstrelay/internal/logger"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	if os.Getenv("TESTCONTAINERS_RYUK_DISABLED") == "" {
		os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")
	}

	container, err := redismodule.Run(ctx, "redis:8.4.0-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		container.Terminate(ctx)
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opt, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	t.Cleanup(func() { client.Close() })

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(pingCtx).Err())

	return client
}

func TestCacheProvider_Integration(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	calls := 0
	inner := ProviderFunc(func(ctx context.Context, id string) (*StatusRecord, error) {
		calls++
		if id == "27AAPFU0939F1ZV" {
			return nil, notFound(id)
		}
		due := NewDate(2026, time.October, 20)
		return &StatusRecord{GSTIN: id, BusinessName: "ACME", DueDate: &due}, nil
	})

	p := NewCacheProvider(client, inner, time.Minute, logger.NopLogger())

	first, err := p.Lookup(ctx, testGSTIN)
	require.NoError(t, err)
	second, err := p.Lookup(ctx, testGSTIN)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first.BusinessName, second.BusinessName)
	require.NotNil(t, second.DueDate)
	assert.Equal(t, "2026-10-20", second.DueDate.String())

	ttl, err := client.TTL(ctx, cacheKey(testGSTIN)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	for i := 0; i < 2; i++ {
		_, err := p.Lookup(ctx, "27AAPFU0939F1ZV")
		assert.True(t, IsNotFound(err))
	}
	assert.Equal(t, 3, calls)
}
