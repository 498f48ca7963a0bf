package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultDatabaseURL  = "week_planner.db"
	DefaultGeneralTitle = "Общие"
)

// Config keeps runtime settings for the planner.
type Config struct {
	TelegramToken string `toml:"telegram_token"`
	DatabaseURL   string `toml:"database_url"`
	Timezone      string `toml:"timezone"`
	GeneralTitle  string `toml:"general_title"`
}

// Load reads the optional TOML file at path, then applies environment
// overrides and defaults. An empty path falls back to PLANNER_CONFIG; a
// missing file is not an error.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		path = strings.TrimSpace(os.Getenv("PLANNER_CONFIG"))
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
	}

	override(&cfg.TelegramToken, "TELEGRAM_TOKEN")
	override(&cfg.DatabaseURL, "DATABASE_URL")
	override(&cfg.Timezone, "PLANNER_TIMEZONE")
	override(&cfg.GeneralTitle, "PLANNER_GENERAL_TITLE")

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = DefaultDatabaseURL
	}
	if cfg.GeneralTitle == "" {
		cfg.GeneralTitle = DefaultGeneralTitle
	}

	if _, err := cfg.Location(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// RequireToken fails when no telegram token is configured.
func (c Config) RequireToken() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	return nil
}

// Location resolves Timezone; empty or "Local" means the system zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Write stores cfg as TOML at path.
func Write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func override(field *string, env string) {
	if value := strings.TrimSpace(os.Getenv(env)); value != "" {
		*field = value
	}
}
