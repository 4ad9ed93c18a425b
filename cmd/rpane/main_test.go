package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseArgsFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("workers: 2\nshow_hidden: true\ncache_capacity: 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	opts, cfg, err := parseArgs([]string{"--config", cfgPath, "--workers", "6", "--no-watch", dir}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cfg.Workers != 6 {
		t.Errorf("Workers = %d, want flag value 6", cfg.Workers)
	}
	if cfg.CacheCapacity != 10 || !cfg.ShowHidden {
		t.Errorf("file settings lost: %+v", cfg)
	}
	if cfg.Watch {
		t.Error("--no-watch did not disable watching")
	}
	if opts.dir != dir {
		t.Errorf("dir = %q, want %q", opts.dir, dir)
	}
}

func TestParseArgsRejectsInvalidValues(t *testing.T) {
	t.Setenv("RPANE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, _, err := parseArgs([]string{"--cache-capacity", "0"}, io.Discard); err == nil {
		t.Fatal("expected zero cache capacity to be rejected")
	}
	if _, _, err := parseArgs([]string{"a", "b"}, io.Discard); err == nil {
		t.Fatal("expected two directories to be rejected")
	}
	if _, _, err := parseArgs([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("-h returned %v, want flag.ErrHelp", err)
	}
}

func TestStartDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := startDir(dir)
	if err != nil {
		t.Fatalf("startDir(dir): %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Fatalf("startDir returned relative path %q", got)
	}
	if _, err := startDir(file); err == nil {
		t.Fatal("expected a file to be rejected")
	}
	if _, err := startDir(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected a missing path to be rejected")
	}
}

func TestRunSetupPrintsSnippet(t *testing.T) {
	var out strings.Builder
	if code := run([]string{"--setup", "zsh"}, &out, io.Discard); code != 0 {
		t.Fatalf("run exit code %d", code)
	}
	if !strings.Contains(out.String(), "rpane() {") {
		t.Fatalf("unexpected setup output %q", out.String())
	}
}

func TestRunHelp(t *testing.T) {
	var out strings.Builder
	if code := run([]string{"--help"}, &out, io.Discard); code != 0 {
		t.Fatalf("run exit code %d", code)
	}
	if !strings.Contains(out.String(), "USAGE:") {
		t.Fatalf("help missing usage: %q", out.String())
	}
}
