package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstrelay/internal/broker"
	"gstrelay/internal/config"
	"gstrelay/internal/logger"
	"gstrelay/pkg/retry"
)

func TestBase_InitBrokerDefaultsToNop(t *testing.T) {
	b := NewBase(&config.Config{}, logger.NopLogger())
	require.NoError(t, b.InitBroker())
	assert.IsType(t, broker.NopProducer{}, b.Producer)
	assert.NoError(t, b.Shutdown(context.Background(), nil))
}

func TestBase_InitCacheDisabled(t *testing.T) {
	b := NewBase(&config.Config{}, logger.NopLogger())
	require.NoError(t, b.InitCache(context.Background()))
	assert.Nil(t, b.Redis)
}

func TestBase_ShutdownCollectsErrors(t *testing.T) {
	b := NewBase(&config.Config{}, logger.NopLogger())
	err := b.Shutdown(context.Background(), func(context.Context) []error {
		return []error{assert.AnError}
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), assert.AnError.Error())
}

func TestInitRedis_Unreachable(t *testing.T) {
	policy := retry.Policy{MaxAttempts: 2, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond, Multiplier: 1}
	_, err := initRedis(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: 1}, policy, logger.NopLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
