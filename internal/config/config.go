package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/orbit/internal/layout"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings for the orbit binary.
type Config struct {
	DBPath        string         `yaml:"db_path" env:"ORBIT_DB"`
	Layout        string         `yaml:"layout" env:"ORBIT_LAYOUT"`
	Viewport      ViewportConfig `yaml:"viewport"`
	Log           LogConfig      `yaml:"log"`
	WatchInterval time.Duration  `yaml:"watch_interval" env:"ORBIT_WATCH_INTERVAL"`
	SaveInterval  time.Duration  `yaml:"save_interval" env:"ORBIT_SAVE_INTERVAL"`
}

// ViewportConfig is the canvas size used by non-interactive commands that
// have no terminal to measure.
type ViewportConfig struct {
	Width  float64 `yaml:"width" env:"ORBIT_VIEWPORT_WIDTH"`
	Height float64 `yaml:"height" env:"ORBIT_VIEWPORT_HEIGHT"`
}

// LogConfig selects the structured log sink. An empty path discards logs.
type LogConfig struct {
	Path  string `yaml:"path" env:"ORBIT_LOG_FILE"`
	Level string `yaml:"level" env:"ORBIT_LOG_LEVEL"`
}

// Canvas converts the configured canvas size to a layout viewport.
func (c Config) Canvas() layout.Viewport {
	return layout.Viewport{Width: c.Viewport.Width, Height: c.Viewport.Height}.Sanitize()
}

// DefaultConfig returns a Config rooted at dir (normally ~/.orbit).
func DefaultConfig(dir string) Config {
	return Config{
		DBPath: filepath.Join(dir, "orbit.db"),
		Layout: "ring",
		Viewport: ViewportConfig{
			Width:  1200,
			Height: 800,
		},
		Log: LogConfig{
			Level: "info",
		},
		WatchInterval: 2 * time.Second,
		SaveInterval:  250 * time.Millisecond,
	}
}

// Load builds the configuration in layers: defaults, an optional .env file
// in the working directory, an optional YAML file (ORBIT_CONFIG or
// ~/.orbit/config.yaml), then environment variables.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	dir := filepath.Join(home, ".orbit")
	cfg := DefaultConfig(dir)

	path := os.Getenv("ORBIT_CONFIG")
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, "config.yaml")
	}
	if err := loadFromFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Layout = strings.ToLower(strings.TrimSpace(cfg.Layout))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the rest of the program cannot honour.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("db path is required")
	}
	if _, ok := layout.Lookup(c.Layout); !ok {
		return fmt.Errorf("unknown layout %q (want one of %s)", c.Layout, strings.Join(layout.Names(), ", "))
	}
	if c.WatchInterval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", c.WatchInterval)
	}
	if c.SaveInterval <= 0 {
		return fmt.Errorf("save interval must be positive, got %s", c.SaveInterval)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
