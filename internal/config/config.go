package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN"`
	ChatID   int64  `envconfig:"CHAT_ID"`                   // chat where sessions are posted
	HTTPOnly bool   `envconfig:"HTTP_ONLY" default:"false"` // admin API only, no chat transport

	EnableSchedules bool          `envconfig:"ENABLE_SCHEDULES" default:"false"`
	SessionLimit    int           `envconfig:"SESSION_LIMIT" default:"0"` // 0 = unlimited
	Horizon         time.Duration `envconfig:"HORIZON" default:"24h"`

	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite"` // sqlite|bolt|memory
	DBPath      string `envconfig:"DB_PATH" default:"./data/bootcamp.db"`
	DefaultTZ   string `envconfig:"DEFAULT_TZ" default:"Europe/Amsterdam"`

	TickSpec        string `envconfig:"TICK_SPEC" default:"0 * * * *"`
	LeaderboardSpec string `envconfig:"LEADERBOARD_SPEC" default:"0 9 1 * *"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`   // debug|info|warn|error
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`  // json|console
	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":8080"` // admin API
}

// Load reads environment variables into Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the settings envconfig tags cannot express.
func (c Config) Validate() error {
	var errs []error
	if !c.HTTPOnly {
		if c.BotToken == "" {
			errs = append(errs, errors.New("BOT_TOKEN is required unless HTTP_ONLY is set"))
		}
		if c.ChatID == 0 {
			errs = append(errs, errors.New("CHAT_ID is required unless HTTP_ONLY is set"))
		}
	}
	switch c.StoreDriver {
	case "sqlite", "bolt", "memory":
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not one of sqlite, bolt, memory", c.StoreDriver))
	}
	if c.SessionLimit < 0 {
		errs = append(errs, errors.New("SESSION_LIMIT must not be negative"))
	}
	if c.Horizon <= 0 {
		errs = append(errs, errors.New("HORIZON must be positive"))
	}
	if _, err := time.LoadLocation(c.DefaultTZ); err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_TZ: %w", err))
	}
	return errors.Join(errs...)
}

// Location returns the configured reference timezone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.DefaultTZ)
}
