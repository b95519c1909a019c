// Package main is the entry point for the mailsend HTTP service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/shineum/mailsend-lite/internal/config"
	"github.com/shineum/mailsend-lite/internal/provider"
	"github.com/shineum/mailsend-lite/internal/provider/mock"
	"github.com/shineum/mailsend-lite/internal/provider/ses"
	"github.com/shineum/mailsend-lite/internal/provider/smtp"
	"github.com/shineum/mailsend-lite/internal/relay"
	"github.com/shineum/mailsend-lite/internal/send"
	"github.com/shineum/mailsend-lite/internal/server"
	smtptls "github.com/shineum/mailsend-lite/internal/tls"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file (optional)")
	devRelay := flag.String("dev-relay", "", "also run a local SMTP relay on this address that logs every message (e.g. :2525)")
	flag.Parse()

	// Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *devRelay != "" {
		cfg.Relay.Listen = *devRelay
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	setupLogger(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	providers, err := buildProviders(ctx, cfg)
	if err != nil {
		slog.Error("failed to create providers", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg.HTTP.Listen, send.NewDispatcher(providers, cfg.Provider))

	slog.Info("starting mailsend",
		"listen", cfg.HTTP.Listen,
		"default_provider", cfg.Provider,
		"providers", providers.Names(),
		"ses_region", cfg.SES.Region,
		"ses_static_keys", cfg.SESStaticKeys(),
		"smtp_relay", fmt.Sprintf("%s:%d", cfg.SMTP.Host, cfg.SMTP.Port),
		"smtp_auth", cfg.SMTPAuthEnabled(),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx)
	})

	if cfg.Relay.Listen != "" {
		tlsConfig, err := smtptls.Load(cfg.Relay.CertFile, cfg.Relay.KeyFile)
		if err != nil {
			slog.Error("failed to setup relay TLS", "error", err)
			os.Exit(1)
		}
		devServer := relay.New(relay.ServerConfig{
			ListenAddr: cfg.Relay.Listen,
			Hostname:   "localhost",
			Handler:    relay.LogHandler(),
			TLSConfig:  tlsConfig,
		})
		g.Go(func() error {
			return devServer.ListenAndServe(ctx)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("mailsend stopped")
}

// loadConfig loads configuration from the specified path (YAML + env override)
// or from environment variables only if no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// setupLogger configures the global slog logger with JSON output and the
// specified log level.
func setupLogger(level string) {
	var logLevel slog.Level

	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// buildProviders constructs every supported provider. Requests choose among
// them by name; cfg.Provider is only the default.
func buildProviders(ctx context.Context, cfg *config.Config) (*provider.Set, error) {
	sesProvider, err := ses.New(ctx, ses.SESProviderConfig{
		Region:          cfg.SES.Region,
		AccessKeyID:     cfg.SES.Keys.Access,
		SecretAccessKey: cfg.SES.Keys.Secret,
		Sender:          cfg.Sender.From(),
	})
	if err != nil {
		return nil, fmt.Errorf("ses: %w", err)
	}

	smtpProvider, err := smtp.New(smtp.SMTPProviderConfig{
		Host:          cfg.SMTP.Host,
		Port:          cfg.SMTP.Port,
		User:          cfg.SMTP.User,
		Password:      cfg.SMTP.Password,
		SenderAddress: cfg.Sender.Address,
		SenderName:    cfg.Sender.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("smtp: %w", err)
	}

	return provider.NewSet(mock.New(), sesProvider, smtpProvider), nil
}
