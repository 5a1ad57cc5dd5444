package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gstrelay/internal/config"
	"gstrelay/internal/logger"
	"gstrelay/pkg/retry"
)

// InitRedis opens a client and waits for the first successful ping.
func InitRedis(ctx context.Context, cfg config.RedisConfig, log logger.Logger) (*redis.Client, error) {
	return initRedis(ctx, cfg, retry.DefaultPolicy(), log)
}

func initRedis(ctx context.Context, cfg config.RedisConfig, policy retry.Policy, log logger.Logger) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	err := retry.Retry(ctx, policy, func() error {
		return rdb.Ping(ctx).Err()
	}, func(attempt int, err error, nextDelay time.Duration) {
		log.Warnw("Redis not ready, retrying",
			"addr", addr,
			"attempt", attempt,
			"next_delay", nextDelay,
			"error", err,
		)
	})
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis at %s: %w", addr, err)
	}

	log.Infow("Redis connected successfully", "addr", addr)
	return rdb, nil
}
