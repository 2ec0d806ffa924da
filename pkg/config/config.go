package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Reminder     ReminderConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HOMESTOCK_APP_ENV" default:"dev"`
	Port         string `envconfig:"HOMESTOCK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"HOMESTOCK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HOMESTOCK_LOG_WARN_STACK" default:"false"`
	Timezone     string `envconfig:"HOMESTOCK_TIMEZONE" default:"Local"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Location resolves the configured timezone, falling back to the system local
// zone. Reminder gating (quiet hours, the once-per-day boundary) is defined in
// this zone.
func (a AppConfig) Location() *time.Location {
	if a.Timezone == "" || strings.EqualFold(a.Timezone, "Local") {
		return time.Local
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DBConfig selects the storage driver. The device-local sqlite file is the
// default; postgres stays available for development against a shared instance.
type DBConfig struct {
	Driver string `envconfig:"HOMESTOCK_DB_DRIVER" default:"sqlite"`
	Path   string `envconfig:"HOMESTOCK_DB_PATH" default:"homestock.db"`
	DSN    string `envconfig:"HOMESTOCK_DB_DSN"`

	MaxOpenConns    int           `envconfig:"HOMESTOCK_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"HOMESTOCK_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"HOMESTOCK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HOMESTOCK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d DBConfig) validate() error {
	switch d.Driver {
	case DriverSQLite:
		if d.Path == "" {
			return fmt.Errorf("HOMESTOCK_DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if d.DSN == "" {
			return fmt.Errorf("HOMESTOCK_DB_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported db driver %q", d.Driver)
	}
	return nil
}

// ReminderConfig tunes the background reminder worker. The gate semantics
// themselves (once per day, notify-time window, quiet hours) live in the
// persisted ReminderSettings row, not here.
type ReminderConfig struct {
	CheckInterval time.Duration `envconfig:"HOMESTOCK_REMINDER_CHECK_INTERVAL" default:"6h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"HOMESTOCK_AUTO_MIGRATE" default:"true"`
}
