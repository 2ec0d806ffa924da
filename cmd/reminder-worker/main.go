package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/homestockhq/homestock-backend/internal/cron"
	"github.com/homestockhq/homestock-backend/internal/reminders"
	"github.com/homestockhq/homestock-backend/internal/rules"
	"github.com/homestockhq/homestock-backend/pkg/config"
	"github.com/homestockhq/homestock-backend/pkg/db"
	"github.com/homestockhq/homestock-backend/pkg/logger"
	"github.com/homestockhq/homestock-backend/pkg/metrics"
	"github.com/homestockhq/homestock-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "reminder-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "reminder-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	unifier := migrate.NewUnifier(dbClient, logg)
	if err := migrate.MaybeRun(context.Background(), cfg, logg, dbClient, unifier); err != nil {
		logg.Error(context.Background(), "failed to migrate schema", err)
		os.Exit(1)
	}

	ruleRepo := rules.NewRepository(dbClient.DB())
	reminderRepo := reminders.NewRepository(dbClient.DB())

	settingsLoader, err := reminders.NewSettingsLoader(reminderRepo)
	exitOn(logg, "settings loader", err)

	ruleService, err := rules.NewService(rules.ServiceParams{
		Repo:     ruleRepo,
		Settings: settingsLoader,
		Tx:       dbClient,
		Logger:   logg,
	})
	exitOn(logg, "rules service", err)

	notifier, err := reminders.NewLogNotifier(logg)
	exitOn(logg, "notifier", err)

	reminderMetrics := metrics.NewReminderMetrics(prometheus.DefaultRegisterer)
	reminderService, err := reminders.NewService(reminders.ServiceParams{
		Repo:     reminderRepo,
		Rules:    ruleService,
		Notifier: notifier,
		Logger:   logg,
		Metrics:  reminderMetrics,
		Location: cfg.App.Location(),
	})
	exitOn(logg, "reminder service", err)

	reminderJob, err := cron.NewReminderJob(reminderService)
	exitOn(logg, "reminder job", err)

	jobMetrics := metrics.NewJobMetrics(prometheus.DefaultRegisterer)
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(reminderJob),
		Lock:     cron.NewLocalLock(),
		Metrics:  jobMetrics,
		Interval: cfg.Reminder.CheckInterval,
	})
	exitOn(logg, "cron service", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting reminder worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "reminder worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "reminder worker shutting down gracefully")
}

func exitOn(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
