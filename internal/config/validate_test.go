// internal/config/validate_test.go
package config

import (
	"strings"
	"testing"
)

// helper to build a valid config quickly
func valid() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "json"},
		IdentServer: IdentServerConfig{
			PublicURL: "http://identserver.local:8001",
			Image:     ImageConfig{Width: 200, MaxAgeDays: 365},
			Sink:      SinkConfig{Backend: "jsonl", Path: "logs.jsonl"},
		},
		Domain: DomainConfig{IdentServerURL: "http://identserver.local:8001"},
		Client: ClientConfig{Mode: "proxy", FrameURL: "http://domain1.local:8000/3ds-method-proxy"},
	}
}

// ---- tests ----

func TestValidate_ZeroConfigIsValid(t *testing.T) {
	if err := Validate(&Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_FullConfigIsValid(t *testing.T) {
	if err := Validate(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"sink backend", func(c *Config) { c.IdentServer.Sink.Backend = "kafka" }, "sink.backend"},
		{"redis without addr", func(c *Config) { c.IdentServer.Sink.Backend = "redis" }, "redis_addr"},
		{"narrow strip", func(c *Config) { c.IdentServer.Image.Width = 4 }, "identserver.image.width"},
		{"negative width", func(c *Config) { c.Client.Width = -1 }, "client.width"},
		{"negative max age", func(c *Config) { c.IdentServer.Image.MaxAgeDays = -1 }, "max_age_days"},
		{"relative url", func(c *Config) { c.Domain.IdentServerURL = "/relative" }, "domain.identserver_url"},
		{"ftp url", func(c *Config) { c.Client.ImageURL = "ftp://x/cache" }, "client.image_url"},
		{"mode", func(c *Config) { c.Client.Mode = "sideways" }, "client.mode"},
		{"negative timeout", func(c *Config) { c.Client.ReadTimeoutMs = -5 }, "read_timeout_ms"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	cfg := &Config{}
	_ = Validate(cfg)
	if cfg.IdentServer.Image.Width != 0 || cfg.Client.Mode != "" {
		t.Fatalf("Validate mutated config: %+v", cfg)
	}
}

func TestValidate_Nil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
