package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/homestockhq/homestock-backend/api/routes"
	"github.com/homestockhq/homestock-backend/internal/export"
	"github.com/homestockhq/homestock-backend/internal/inventory"
	"github.com/homestockhq/homestock-backend/internal/items"
	"github.com/homestockhq/homestock-backend/internal/ledger"
	"github.com/homestockhq/homestock-backend/internal/reminders"
	"github.com/homestockhq/homestock-backend/internal/rules"
	"github.com/homestockhq/homestock-backend/internal/shopping"
	"github.com/homestockhq/homestock-backend/internal/wishlist"
	"github.com/homestockhq/homestock-backend/pkg/config"
	"github.com/homestockhq/homestock-backend/pkg/db"
	"github.com/homestockhq/homestock-backend/pkg/logger"
	"github.com/homestockhq/homestock-backend/pkg/metrics"
	"github.com/homestockhq/homestock-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	itemRepo := items.NewRepository(dbClient.DB())
	ledgerRepo := ledger.NewRepository(dbClient.DB())
	inventoryRepo := inventory.NewRepository(dbClient.DB())
	shoppingRepo := shopping.NewRepository(dbClient.DB())
	wishlistRepo := wishlist.NewRepository(dbClient.DB())
	ruleRepo := rules.NewRepository(dbClient.DB())
	reminderRepo := reminders.NewRepository(dbClient.DB())

	itemService, err := items.NewService(items.ServiceParams{
		Repo:       itemRepo,
		LedgerRepo: ledgerRepo,
		Tx:         dbClient,
	})
	exitOn(logg, "item service", err)

	ledgerService, err := ledger.NewService(ledgerRepo, dbClient)
	exitOn(logg, "ledger service", err)

	inventoryService, err := inventory.NewService(inventory.ServiceParams{
		Repo:       inventoryRepo,
		ItemRepo:   itemRepo,
		LedgerRepo: ledgerRepo,
		Tx:         dbClient,
	})
	exitOn(logg, "inventory service", err)

	shoppingService, err := shopping.NewService(shopping.ServiceParams{
		Repo:          shoppingRepo,
		ItemRepo:      itemRepo,
		InventoryRepo: inventoryRepo,
		LedgerRepo:    ledgerRepo,
		Tx:            dbClient,
	})
	exitOn(logg, "shopping service", err)

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Repo:     wishlistRepo,
		ItemRepo: itemRepo,
		Tx:       dbClient,
	})
	exitOn(logg, "wishlist service", err)

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

	exportService, err := export.NewService(dbClient.DB(), dbClient)
	exitOn(logg, "export service", err)

	addr := ":" + cfg.App.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, prometheus.DefaultGatherer,
			itemService, inventoryService, shoppingService, wishlistService,
			ledgerService, ruleService, reminderService, exportService,
		),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		<-runCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "server shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server shut down gracefully")
}

func exitOn(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
