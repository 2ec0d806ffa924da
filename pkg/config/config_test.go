package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Env != AppEnvDev {
		t.Fatalf("expected dev default, got %q", cfg.App.Env)
	}
	if cfg.DB.Driver != DriverSQLite {
		t.Fatalf("expected sqlite default, got %q", cfg.DB.Driver)
	}
	if cfg.DB.Path == "" {
		t.Fatal("expected default sqlite path")
	}
	if cfg.Reminder.CheckInterval != 6*time.Hour {
		t.Fatalf("expected 6h check interval, got %s", cfg.Reminder.CheckInterval)
	}
	if !cfg.FeatureFlags.AutoMigrate {
		t.Fatal("expected auto-migrate on by default")
	}
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	t.Setenv("HOMESTOCK_DB_DRIVER", "postgres")
	t.Setenv("HOMESTOCK_DB_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for postgres without DSN")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("HOMESTOCK_DB_DRIVER", "oracle")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLocationFallsBackToLocal(t *testing.T) {
	app := AppConfig{Timezone: "Not/AZone"}
	if app.Location() != time.Local {
		t.Fatal("expected local fallback for bad timezone")
	}

	app = AppConfig{Timezone: "UTC"}
	if app.Location().String() != "UTC" {
		t.Fatalf("expected UTC, got %s", app.Location())
	}
}
