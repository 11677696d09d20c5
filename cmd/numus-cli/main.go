// numus-cli reads and updates the dashboard records from a terminal,
// against the same backend the server uses.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"numus/internal/adapters"
	"numus/internal/backend"
	"numus/internal/cli"
	applog "numus/internal/log"
	"numus/internal/render"
	"numus/internal/services"
)

const usage = `usage: numus-cli <command> [flags]

commands:
  summary                 totals per type and balance
  recent                  latest transactions
  goals                   goals and their progress
  add                     record a transaction
  contribute <goal-id> <amount>
  objective [text]        show or replace the objective
  report                  filtered transaction listing`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentCLI)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendConfig)
	if err != nil {
		logger.Error("Failed to create backend", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer result.Close()

	opts := []adapters.Option{adapters.WithLogger(logger.WithComponent(applog.ComponentRecords))}
	if result.Publisher != nil {
		opts = append(opts, adapters.WithPublisher(result.Publisher))
	}
	records := adapters.NewRecordStore(result.Store, opts...)
	if cfg.SeedDemo {
		if _, err := records.Bootstrap(ctx); err != nil {
			logger.Error("Failed to seed demo transactions", applog.FieldError, err)
			os.Exit(1)
		}
	}

	formatter, err := render.NewFormatter(cfg.Locale, cfg.CurrencySymbol)
	if err != nil {
		logger.Error("Invalid locale", applog.FieldError, err, "locale", cfg.Locale)
		os.Exit(1)
	}

	app := &app{
		dashboard: services.NewDashboard(records, time.Now, cfg.RecentLimit),
		formatter: formatter,
		out:       os.Stdout,
	}
	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "numus-cli:", err)
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		os.Exit(1)
	}
}
