package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"numus/internal/adapters"
	"numus/internal/backend"
	"numus/internal/cli"
	apphttp "numus/internal/http"
	applog "numus/internal/log"
	"numus/internal/middleware/ratelimit"
	"numus/internal/render"
	"numus/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendConfig)
	if err != nil {
		logger.Error("Failed to create backend", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Close(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	opts := []adapters.Option{adapters.WithLogger(logger.WithComponent(applog.ComponentRecords))}
	if result.Publisher != nil {
		opts = append(opts, adapters.WithPublisher(result.Publisher))
	}
	records := adapters.NewRecordStore(result.Store, opts...)

	if cfg.SeedDemo {
		if _, err := records.Bootstrap(context.Background()); err != nil {
			logger.Error("Failed to seed demo transactions", applog.FieldError, err)
			os.Exit(1)
		}
	}

	formatter, err := render.NewFormatter(cfg.Locale, cfg.CurrencySymbol)
	if err != nil {
		logger.Error("Invalid locale", applog.FieldError, err, "locale", cfg.Locale)
		os.Exit(1)
	}

	var health apphttp.HealthChecker
	if hc, ok := result.Store.(apphttp.HealthChecker); ok {
		health = hc
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Dashboard: services.NewDashboard(records, time.Now, cfg.RecentLimit),
		Formatter: formatter,
		Logger:    logger,
		Health:    health,
		RateLimit: ratelimit.DefaultConfig(),
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	_, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
	})

	logger.Info("Starting numus server",
		applog.FieldOperation, applog.OpStartup,
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"locale", formatter.Locale())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-done
	logger.Info("Server stopped gracefully")
}
