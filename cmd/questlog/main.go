package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mfeller/questlog/adapter/cli"
	"github.com/mfeller/questlog/internal/app"
	"github.com/mfeller/questlog/pkg/config"
	"github.com/mfeller/questlog/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}
	cli.SetLogger(logger)

	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		// The processor drains the outbox while the CLI runs; the worker
		// binary covers anything left behind.
		if container.OutboxProcessor != nil {
			if err := container.OutboxProcessor.Start(ctx); err != nil {
				logger.Warn("failed to start outbox processor", "error", err)
			}
		}

		cliApp = &cli.App{
			Catalog:                     container.Catalog,
			RecordCompletionHandler:     container.RecordCompletionHandler,
			GetDailyStatsHandler:        container.GetDailyStatsHandler,
			GetTrendHandler:             container.GetTrendHandler,
			GetCategoryBreakdownHandler: container.GetCategoryBreakdownHandler,
			GetSummaryHandler:           container.GetSummaryHandler,
			CreateProfileHandler:        container.CreateProfileHandler,
			ManageTasksHandler:          container.ManageTasksHandler,
			GetProfileHandler:           container.GetProfileHandler,
			ListProfilesHandler:         container.ListProfilesHandler,
			Metrics:                     container.Metrics,
			CurrentUserID:               container.UserID,
		}
	}

	cli.SetApp(cliApp)
	cli.Execute()
}
