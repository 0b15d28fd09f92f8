package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/pable/volleystats/internal/model"
	"github.com/pable/volleystats/internal/stats"
)

// Config holds the tunables for a report run.
type Config struct {
	// PartialGameCredit is the games-played credit for a set not played to the end.
	PartialGameCredit float64  `yaml:"partial_game_credit" env:"VOLLEYSTATS_PARTIAL_GAME_CREDIT"`
	Markers           []string `yaml:"markers"             env:"VOLLEYSTATS_MARKERS" envSeparator:","`
	LogLevel          string   `yaml:"log_level"           env:"VOLLEYSTATS_LOG_LEVEL"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PartialGameCredit: stats.DefaultPartialGameCredit,
		Markers:           append([]string(nil), model.DefaultMarkers...),
		LogLevel:          "info",
	}
}

// Load reads the YAML file at path, if any, then applies environment
// overrides. An empty path or a missing file yields the defaults plus env.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.PartialGameCredit <= 0 || c.PartialGameCredit > 1 {
		return fmt.Errorf("partial_game_credit must be in (0, 1], got %v", c.PartialGameCredit)
	}
	if len(c.Markers) == 0 {
		return fmt.Errorf("markers must not be empty")
	}
	for _, m := range c.Markers {
		if len([]rune(m)) != 1 {
			return fmt.Errorf("marker %q must be a single character", m)
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// NewLogger returns a text logger on stderr at the configured level.
func (c Config) NewLogger() *slog.Logger {
	lvl, err := c.Level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
