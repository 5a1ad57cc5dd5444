package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gstrelay/internal/constants"
	"gstrelay/pkg/health"
	"gstrelay/pkg/middleware"
	"gstrelay/pkg/tracing"
)

// NewRouter builds the gin engine shared by both services: middleware chain,
// GET /, GET /health, GET /metrics and the JSON 404.
func (b *Base) NewRouter(serviceName string) *gin.Engine {
	if b.Config.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	if b.Config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware(serviceName))
	}
	router.Use(middleware.RecoveryMiddleware(b.Logger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(b.Logger))

	registry := health.NewCheckerRegistry(serviceName)
	if b.Redis != nil {
		registry.Register(health.NewRedisChecker(b.Redis))
	}

	router.GET("/", health.RootHandler())
	router.GET("/health", registry.Handler())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.NoRoute(middleware.NotFoundHandler())

	return router
}

func (b *Base) NewServer(handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", b.Config.Server.Port),
		Handler:      handler,
		ReadTimeout:  b.Config.Server.ReadTimeout,
		WriteTimeout: b.Config.Server.WriteTimeout,
	}
}

// ServeUntilDone runs server until ctx is done, then shuts it down within the shutdown timeout.
func (b *Base) ServeUntilDone(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		b.Logger.InfowCtx(ctx, "HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ShutdownTimeout)
	defer cancel()

	b.Logger.InfowCtx(ctx, "Shutting down HTTP server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return <-errCh
}
