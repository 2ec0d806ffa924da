package migrate

import (
	"context"
	"fmt"

	"github.com/homestockhq/homestock-backend/pkg/config"
	"github.com/homestockhq/homestock-backend/pkg/db"
	"github.com/homestockhq/homestock-backend/pkg/logger"
)

// MaybeRun brings the store up to the current schema when auto-migrate is
// enabled: first the one-shot legacy unification (a no-op unless a legacy
// schema version is found), then the goose migrations. Any failure here is
// fatal to startup: an inconsistent schema must not be silently used.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client, unifier *Unifier) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})

	if err := unifier.Run(ctx); err != nil {
		return err
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(ctx, "running goose migrations")
	if err := Run(ctx, sqlDB, cfg.DB.Driver, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "goose migrations completed")
	return nil
}
