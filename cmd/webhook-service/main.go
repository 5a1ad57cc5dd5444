package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gstrelay/internal/config"
	"gstrelay/internal/constants"
	"gstrelay/internal/logger"
	"gstrelay/pkg/logging"
)

var (
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "webhook-service",
		Short: "WhatsApp GST relay, webhook push mode",
		Long:  "Receives WhatsApp Cloud API webhooks, looks up GST numbers and replies with their filing status",
		RunE:  serveCmd().RunE,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to an optional YAML config file")

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook service",
		RunE: func(cmd *cobra.Command, args []string) error {
			earlyLog := logging.NewEarlyLog()

			if configFile == "" {
				configFile = os.Getenv("CONFIG_FILE")
			}

			cfg, err := config.Load(configFile)
			if err != nil {
				earlyLog.Error("Failed to load config: %v", err)
				return err
			}
			if err := config.ValidateWebhook(cfg); err != nil {
				earlyLog.Error("Invalid webhook configuration: %v", err)
				return err
			}

			log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				earlyLog.Error("Failed to init logger: %v", err)
				return err
			}
			defer log.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			ctx = logging.WithServiceName(ctx, constants.ServiceNameWebhook)

			log.InfowCtx(ctx, "Starting WhatsApp GST Bot",
				"port", cfg.Server.Port,
				"environment", cfg.Server.Environment,
				"style", cfg.Formatting.Style,
				"lookup_provider", cfg.Lookup.Provider,
			)

			app := NewApp(cfg, log)
			if err := app.Initialize(ctx); err != nil {
				log.Fatalf("Failed to initialize application: %v", err)
			}

			runErr := app.Run(ctx)
			if runErr != nil {
				log.ErrorwCtx(ctx, "Application error", "error", runErr)
			}

			if err := app.Shutdown(ctx); err != nil {
				log.ErrorwCtx(ctx, "Shutdown error", "error", err)
			}
			return runErr
		},
	}
}
