package main

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"gstrelay/internal/config"
	"gstrelay/internal/constants"
	"gstrelay/internal/dedup"
	"gstrelay/internal/formatter"
	"gstrelay/internal/logger"
	"gstrelay/internal/lookup"
	"gstrelay/internal/messaging"
	"gstrelay/internal/poller"
	"gstrelay/internal/relay"
	"gstrelay/pkg/bootstrap"
	"gstrelay/pkg/metrics"
	"gstrelay/pkg/tracing"
)

type App struct {
	*bootstrap.Base
	tracerProvider *tracing.TracerProvider
	poller         *poller.Poller
	server         *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName(constants.ServiceNamePoll)
	}
	return &App{
		Base: bootstrap.NewBase(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	tp, err := tracing.Init(a.Config.Tracing, constants.ServiceNamePoll)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	metrics.Register()

	if err := a.InitCache(ctx); err != nil {
		return fmt.Errorf("failed to initialize lookup cache: %w", err)
	}

	if err := a.InitBroker(); err != nil {
		return fmt.Errorf("failed to initialize broker: %w", err)
	}

	provider, err := lookup.NewProvider(a.Config, a.Redis, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize lookup provider: %w", err)
	}

	client := messaging.NewGreenAPIClient(a.Config.GreenAPI, nil, a.Logger)
	f := formatter.New(a.Config.Formatting.Style, a.Config.Formatting.AlertDays)
	pipeline := relay.NewPipeline(provider, client, f, a.Producer, a.Logger)

	a.poller = poller.New(client, pipeline, dedup.NewMemorySet(a.Config.Poll.DedupCapacity), poller.Config{
		Interval:        a.Config.Poll.Interval,
		PipelineTimeout: a.Config.Poll.PipelineTimeout,
	}, a.Logger)

	router := a.NewRouter(constants.ServiceNamePoll)
	router.GET("/check-status", poller.StatusHandler(client, a.Logger))
	a.server = a.NewServer(router)

	return nil
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.ServeUntilDone(gCtx, a.server)
	})

	g.Go(func() error {
		return a.poller.Run(gCtx)
	})

	return g.Wait()
}

// Shutdown waits for in-flight pipelines, then releases shared resources.
func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ShutdownTimeout)
	defer cancel()

	return a.Base.Shutdown(shutdownCtx, func(ctx context.Context) []error {
		var errs []error
		if a.poller != nil {
			if err := a.poller.Wait(ctx); err != nil {
				errs = append(errs, fmt.Errorf("in-flight pipelines did not finish: %w", err))
			}
		}
		if a.tracerProvider != nil {
			if err := a.tracerProvider.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("tracer shutdown error: %w", err))
			}
		}
		return errs
	})
}
