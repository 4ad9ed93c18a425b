package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("RPANE_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	for _, key := range []string{"RPANE_CACHE_CAPACITY", "RPANE_WORKERS", "RPANE_SHOW_HIDDEN"} {
		t.Setenv(key, "")
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "cache_capacity: 10\nshow_hidden: true\nlog_format: json\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("RPANE_CACHE_CAPACITY", "3")
	t.Setenv("RPANE_SHOW_HIDDEN", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CacheCapacity != 3 {
		t.Fatalf("expected env to override cache_capacity, got %d", cfg.CacheCapacity)
	}
	if !cfg.ShowHidden || cfg.LogFormat != "json" {
		t.Fatalf("expected file values to be applied, got %+v", cfg)
	}
	if cfg.Workers != Default().Workers {
		t.Fatalf("expected unset keys to keep defaults, got workers=%d", cfg.Workers)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for explicit missing config")
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("RPANE_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("RPANE_WORKERS", "many")

	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), "RPANE_WORKERS") {
		t.Fatalf("expected RPANE_WORKERS parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero capacity", func(c *Config) { c.CacheCapacity = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"zero queue", func(c *Config) { c.RequestQueue = 0 }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
