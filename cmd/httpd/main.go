// Command httpd runs the sentiment watchdog HTTP service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonesrussell/sentiment-watchdog/internal/api"
	"github.com/jonesrussell/sentiment-watchdog/internal/classifier"
	"github.com/jonesrussell/sentiment-watchdog/internal/config"
	"github.com/jonesrussell/sentiment-watchdog/internal/database"
	"github.com/jonesrussell/sentiment-watchdog/internal/engine"
	"github.com/jonesrussell/sentiment-watchdog/internal/logging"
	"github.com/jonesrussell/sentiment-watchdog/internal/notify"
	"github.com/jonesrussell/sentiment-watchdog/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting sentiment watchdog",
		"version", cfg.Service.Version,
		"port", cfg.Service.Port,
		"db_driver", cfg.Database.Driver,
	)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := database.Migrate(context.Background(), db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	provider := telemetry.NewProvider()

	clf := classifier.NewLimited(
		classifier.NewKeywordClassifier(),
		cfg.Classifier.RPS,
		cfg.Classifier.Burst,
		cfg.Classifier.Timeout,
		logger,
	)

	notifier := notify.NewEmailNotifier(notify.EmailConfig{
		Enabled:    cfg.Alerts.EmailEnabled,
		Host:       cfg.Alerts.SMTP.Host,
		Port:       cfg.Alerts.SMTP.Port,
		Username:   cfg.Alerts.SMTP.Username,
		Password:   cfg.Alerts.SMTP.Password,
		From:       cfg.Alerts.SMTP.From,
		Recipients: cfg.Alerts.Recipients,
	}, logger)

	registry := engine.NewRegistry(engine.RegistryConfig{
		Classifier: clf,
		Store:      database.NewStore(db),
		Notifier:   notifier,
		Telemetry:  provider,
		Logger:     logger,
	})

	// Hydrate the default workspace up front so the first request is fast.
	if _, err := registry.Get(context.Background(), cfg.Service.DefaultWorkspace); err != nil {
		return fmt.Errorf("hydrate default workspace: %w", err)
	}

	handler := api.NewHandler(
		registry,
		cfg.Service.DefaultWorkspace,
		cfg.Service.Name,
		cfg.Service.Version,
		logger,
	)
	server := api.NewServer(handler, provider.Handler(), api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}, logger)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-shutdown:
		logger.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}

		logger.Info("Server stopped gracefully")
	}

	return nil
}
