// Package config resolves nextitem settings from defaults, an optional YAML
// file and NEXTITEM_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all nextitem configuration.
type Config struct {
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Selection SelectionConfig `yaml:"selection"`
}

// DBConfig selects the backing store.
type DBConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`

	// DSN is the data source name. Empty with sqlite means the default
	// XDG data path.
	DSN string `yaml:"dsn"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Mode is "dev" or "prod".
	Mode string `yaml:"mode"`
}

// SelectionConfig tunes item selection.
type SelectionConfig struct {
	// PriorContextCount is how many recent context tags to avoid by default.
	PriorContextCount int `yaml:"prior_context_count"`

	// HistoryLimit caps the response history read per selection. Zero uses
	// the corpus size.
	HistoryLimit int `yaml:"history_limit"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DB:  DBConfig{Driver: "sqlite"},
		Log: LogConfig{Mode: "dev"},
		Selection: SelectionConfig{
			PriorContextCount: 1,
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() (Config, error) {
	return ApplyEnv(DefaultConfig())
}

// Resolve loads path (when non-empty, or NEXTITEM_CONFIG when set) and
// applies environment overrides.
func Resolve(path string) (Config, error) {
	if path == "" {
		path = os.Getenv("NEXTITEM_CONFIG")
	}
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return cfg, err
		}
	}
	return ApplyEnv(cfg)
}

// ApplyEnv overrides cfg with any NEXTITEM_* variables that are set.
func ApplyEnv(cfg Config) (Config, error) {
	if v := os.Getenv("NEXTITEM_DB_DRIVER"); v != "" {
		cfg.DB.Driver = v
	}
	if v := os.Getenv("NEXTITEM_DB_DSN"); v != "" {
		cfg.DB.DSN = v
	}
	if v := os.Getenv("NEXTITEM_LOG_MODE"); v != "" {
		cfg.Log.Mode = v
	}
	if err := envInt("NEXTITEM_PRIOR_CONTEXT", &cfg.Selection.PriorContextCount); err != nil {
		return cfg, err
	}
	if err := envInt("NEXTITEM_HISTORY_LIMIT", &cfg.Selection.HistoryLimit); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
