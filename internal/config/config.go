// Package config loads rpane settings from defaults, an optional YAML file
// and RPANE_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings.
type Config struct {
	// Content pipeline
	CacheCapacity int  `yaml:"cache_capacity"`
	Workers       int  `yaml:"workers"`
	RequestQueue  int  `yaml:"request_queue"`
	ShowHidden    bool `yaml:"show_hidden"`
	Watch         bool `yaml:"watch"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogFile   string `yaml:"log_file"`

	// Metrics (optional)
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		CacheCapacity: 64,
		Workers:       4,
		RequestQueue:  8,
		ShowHidden:    false,
		Watch:         true,
		LogLevel:      "info",
		LogFormat:     "console",
	}
}

// Load builds the configuration. An explicit path must exist; when path is
// empty the default location is used if present.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := loadFile(&cfg, path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return cfg, err
			}
		}
	}

	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// DefaultPath returns $RPANE_CONFIG, or config.yaml under the user config
// directory.
func DefaultPath() string {
	if p := os.Getenv("RPANE_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rpane", "config.yaml")
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	if c.CacheCapacity <= 0 {
		return fmt.Errorf("cache_capacity must be positive, got %d", c.CacheCapacity)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.RequestQueue <= 0 {
		return fmt.Errorf("request_queue must be positive, got %d", c.RequestQueue)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	return nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	ints := map[string]*int{
		"RPANE_CACHE_CAPACITY": &cfg.CacheCapacity,
		"RPANE_WORKERS":        &cfg.Workers,
		"RPANE_REQUEST_QUEUE":  &cfg.RequestQueue,
	}
	for key, dst := range ints {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"RPANE_SHOW_HIDDEN": &cfg.ShowHidden,
		"RPANE_WATCH":       &cfg.Watch,
	}
	for key, dst := range bools {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	strs := map[string]*string{
		"RPANE_LOG_LEVEL":    &cfg.LogLevel,
		"RPANE_LOG_FORMAT":   &cfg.LogFormat,
		"RPANE_LOG_FILE":     &cfg.LogFile,
		"RPANE_METRICS_ADDR": &cfg.MetricsAddr,
	}
	for key, dst := range strs {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	return nil
}
