// Package config loads the server's YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/weekly-tracker/backend/internal/calendar"
)

// Defaults applied by Normalize.
const (
	DefaultListen       = ":8099"
	DefaultDataDir      = "/data"
	DefaultStaticDir    = "./static"
	DefaultTimezone     = "America/New_York"
	DefaultRolloverSpec = "@every 1m"
)

// Config is the top-level server configuration.
type Config struct {
	// Listen is the HTTP listen address for the API and UI.
	Listen string `yaml:"listen" json:"listen"`

	// DataDir holds the SQLite database.
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// StaticDir is served at / for the frontend. Empty disables it.
	StaticDir string `yaml:"static_dir" json:"static_dir"`

	// DefaultTimezone seeds the timezone setting on first boot only. After
	// that the stored setting wins and is changed through the API.
	DefaultTimezone string `yaml:"default_timezone" json:"default_timezone"`

	// RolloverSpec is the cron schedule, with a leading seconds field or a
	// descriptor such as "@every 1m", on which the current week is
	// re-evaluated.
	RolloverSpec string `yaml:"rollover_spec" json:"rollover_spec"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          DefaultListen,
		DataDir:         DefaultDataDir,
		StaticDir:       DefaultStaticDir,
		DefaultTimezone: DefaultTimezone,
		RolloverSpec:    DefaultRolloverSpec,
	}
}

// Normalize fills in missing values with defaults so partially-filled files
// still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.DefaultTimezone == "" {
		c.DefaultTimezone = DefaultTimezone
	}
	if c.RolloverSpec == "" {
		c.RolloverSpec = DefaultRolloverSpec
	}
}

// Validate checks the values that would otherwise only fail once the server
// is running.
func (c *Config) Validate() error {
	if _, err := calendar.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("default_timezone: %w", err)
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.RolloverSpec); err != nil {
		return fmt.Errorf("rollover_spec %q: %w", c.RolloverSpec, err)
	}
	return nil
}

// Load reads the YAML file at path. A missing file is created with the
// default configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically via a temp file and rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".weekly-tracker-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
