package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"gstrelay/internal/broker"
	"gstrelay/internal/config"
	"gstrelay/internal/logger"
)

// Base carries what both services build at startup and release at shutdown.
type Base struct {
	Config   *config.Config
	Logger   logger.Logger
	Producer broker.Producer
	Redis    *redis.Client
}

func NewBase(cfg *config.Config, log logger.Logger) *Base {
	return &Base{
		Config: cfg,
		Logger: log,
	}
}

func (b *Base) InitBroker() error {
	producer, err := broker.NewProducer(b.Config.Broker, b.Logger)
	if err != nil {
		return fmt.Errorf("failed to create producer: %w", err)
	}
	b.Producer = producer
	return nil
}

// InitCache connects to redis when the lookup cache is enabled. It is a no-op otherwise.
func (b *Base) InitCache(ctx context.Context) error {
	if !b.Config.Lookup.Cache.Enabled {
		return nil
	}
	rdb, err := InitRedis(ctx, b.Config.Database.Redis, b.Logger)
	if err != nil {
		return err
	}
	b.Redis = rdb
	return nil
}

func (b *Base) Shutdown(ctx context.Context, additionalShutdown func(ctx context.Context) []error) error {
	b.Logger.Info("Shutting down application...")

	var errs []error

	if additionalShutdown != nil {
		errs = append(errs, additionalShutdown(ctx)...)
	}

	if b.Producer != nil {
		if err := b.Producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("producer close error: %w", err))
		}
	}

	if b.Redis != nil {
		if err := b.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close error: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	b.Logger.Info("Application exited successfully")
	return nil
}
