// internal/config/logger_test.go
package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_FormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "uid", "abc")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record leaked at warn level: %s", out)
	}
	if !strings.Contains(out, `"uid":"abc"`) {
		t.Fatalf("expected json record, got %s", out)
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("debug should be disabled")
	}
}

func TestResolve_OverrideIsValidated(t *testing.T) {
	_, err := Resolve("", func(c *Config) { c.Client.Mode = "sideways" })
	if err == nil {
		t.Fatalf("expected validation error")
	}

	cfg, err := Resolve("", func(c *Config) { c.Domain.Listen = ":9000" })
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if cfg.Domain.Listen != ":9000" || cfg.IdentServer.Listen != DefaultIdentListen {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestResolve_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab.yaml")
	if err := os.WriteFile(path, []byte("client:\n  mode: proxy\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Resolve(path, nil)
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if cfg.Client.Mode != "proxy" || !strings.HasSuffix(cfg.Client.ImageURL, "/proxy-cache.png") {
		t.Fatalf("client = %+v", cfg.Client)
	}
}
