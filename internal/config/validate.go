// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"

	"github.com/Spaceonmymind/even-cookie-fp/internal/identity"
	"github.com/Spaceonmymind/even-cookie-fp/internal/pixel"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}

	// ------------------------------------------------------------
	// LOGGING
	// ------------------------------------------------------------

	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: must be one of debug, info, warn, error", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q: must be text or json", cfg.Log.Format)
	}

	// ------------------------------------------------------------
	// IDENTITY SERVER
	// ------------------------------------------------------------

	is := cfg.IdentServer
	if err := checkURL("identserver.public_url", is.PublicURL); err != nil {
		return err
	}
	if err := checkWidth("identserver.image.width", is.Image.Width); err != nil {
		return err
	}
	if is.Image.MaxAgeDays < 0 {
		return fmt.Errorf("identserver.image.max_age_days must be >= 0")
	}

	switch is.Sink.Backend {
	case "", "jsonl", "sqlite", "memory":
	case "redis":
		if is.Sink.RedisAddr == "" {
			return fmt.Errorf("identserver.sink: backend redis requires redis_addr")
		}
	default:
		return fmt.Errorf("identserver.sink.backend %q: must be one of jsonl, sqlite, redis, memory", is.Sink.Backend)
	}

	// ------------------------------------------------------------
	// DOMAIN SERVER
	// ------------------------------------------------------------

	if err := checkURL("domain.identserver_url", cfg.Domain.IdentServerURL); err != nil {
		return err
	}
	if cfg.Domain.RelayTimeoutMs < 0 {
		return fmt.Errorf("domain.relay_timeout_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// CLIENT
	// ------------------------------------------------------------

	c := cfg.Client
	switch c.Mode {
	case "", "cross", "proxy":
	default:
		return fmt.Errorf("client.mode %q: must be cross or proxy", c.Mode)
	}
	urls := []struct{ field, value string }{
		{"client.frame_url", c.FrameURL},
		{"client.image_url", c.ImageURL},
		{"client.log_url", c.LogURL},
		{"client.results_url", c.ResultsURL},
	}
	for _, u := range urls {
		if err := checkURL(u.field, u.value); err != nil {
			return err
		}
	}
	if err := checkWidth("client.width", c.Width); err != nil {
		return err
	}
	if c.ReadTimeoutMs < 0 {
		return fmt.Errorf("client.read_timeout_ms must be >= 0")
	}

	return nil
}

// checkURL accepts an empty value (Normalize fills defaults) or an
// absolute http(s) URL.
func checkURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s %q: must be an absolute http(s) URL", field, raw)
	}
	return nil
}

// checkWidth requires room for at least one freshly minted identifier.
func checkWidth(field string, width int) error {
	if width < 0 {
		return fmt.Errorf("%s must be >= 0", field)
	}
	if width > 0 && pixel.Capacity(width) < identity.Length {
		return fmt.Errorf("%s %d: strip must carry at least %d bytes", field, width, identity.Length)
	}
	return nil
}
