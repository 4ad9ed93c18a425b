package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestLDefaultsToNop(t *testing.T) {
	if err := Init(Config{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if L().Core().Enabled(zap.ErrorLevel) {
		t.Fatalf("expected logging to be disabled without an output path")
	}
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rpane.log")
	if err := Init(Config{Level: "debug", Format: "json", OutputPath: path}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() {
		_ = Init(Config{})
	})

	Named("content").Debug("loaded", zap.String("path", "/tmp"))
	_ = Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"logger":"content"`) || !strings.Contains(string(data), `"path":"/tmp"`) {
		t.Fatalf("unexpected log content: %s", data)
	}
}

func TestInitLevelFiltersLowerEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rpane.log")
	if err := Init(Config{Level: "warn", OutputPath: path}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() {
		_ = Init(Config{})
	})

	if L().Core().Enabled(zap.InfoLevel) {
		t.Fatalf("expected info to be filtered at warn level")
	}
	if !L().Core().Enabled(zap.WarnLevel) {
		t.Fatalf("expected warn to be enabled")
	}
}
