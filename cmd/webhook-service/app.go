package main

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"gstrelay/internal/config"
	"gstrelay/internal/constants"
	"gstrelay/internal/formatter"
	"gstrelay/internal/logger"
	"gstrelay/internal/lookup"
	"gstrelay/internal/messaging"
	"gstrelay/internal/relay"
	"gstrelay/internal/webhook"
	"gstrelay/pkg/bootstrap"
	"gstrelay/pkg/metrics"
	"gstrelay/pkg/ratelimit"
	"gstrelay/pkg/tracing"
)

type App struct {
	*bootstrap.Base
	tracerProvider *tracing.TracerProvider
	handler        *webhook.Handler
	limiter        *ratelimit.Store
	server         *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName(constants.ServiceNameWebhook)
	}
	return &App{
		Base: bootstrap.NewBase(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	tp, err := tracing.Init(a.Config.Tracing, constants.ServiceNameWebhook)
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

	sender := messaging.NewCloudAPISender(a.Config.WhatsApp, nil, a.Logger)
	f := formatter.New(a.Config.Formatting.Style, a.Config.Formatting.AlertDays)
	pipeline := relay.NewPipeline(provider, sender, f, a.Producer, a.Logger)
	a.handler = webhook.NewHandler(a.Config.WhatsApp, pipeline, a.Logger)

	router := a.NewRouter(constants.ServiceNameWebhook)
	if a.Config.Webhook.RateLimit.Enabled {
		a.limiter = ratelimit.NewStore(ratelimit.FromSettings(a.Config.Webhook.RateLimit))
		a.handler.RegisterRoutes(router, ratelimit.AckMiddleware(a.limiter))
	} else {
		a.handler.RegisterRoutes(router)
	}

	a.server = a.NewServer(router)
	return nil
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.ServeUntilDone(gCtx, a.server)
	})

	if a.limiter != nil {
		g.Go(func() error {
			a.limiter.RunCleanup(gCtx)
			return nil
		})
	}

	return g.Wait()
}

// Shutdown waits for in-flight pipelines, then releases shared resources.
func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ShutdownTimeout)
	defer cancel()

	return a.Base.Shutdown(shutdownCtx, func(ctx context.Context) []error {
		var errs []error
		if a.handler != nil {
			if err := a.handler.Wait(ctx); err != nil {
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
