// internal/config/normalize.go
package config

import (
	"net/url"
	"strings"

	"github.com/Spaceonmymind/even-cookie-fp/internal/pixel"
)

// Defaults mirror the two-host lab layout: a third-party identity server
// and a first-party site that embeds it.
const (
	DefaultIdentServerURL = "http://identserver.local:8001"
	DefaultDomainURL      = "http://domain1.local:8000"

	DefaultIdentListen  = ":8001"
	DefaultDomainListen = ":8000"

	DefaultMaxAgeDays     = 365
	DefaultRelayTimeoutMs = 5000
	DefaultReadTimeoutMs  = 3000

	DefaultSinkPath    = "logs.jsonl"
	DefaultRedisKey    = "evercookie:logs"
	DefaultResultsPath = "test_results.json"
	DefaultStateDir    = ".evercookie"
	DefaultBrowser     = "go-client"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// ------------------------------------------------------------
	// IDENTITY SERVER
	// ------------------------------------------------------------

	is := &cfg.IdentServer
	if is.Listen == "" {
		is.Listen = DefaultIdentListen
	}
	if is.PublicURL == "" {
		is.PublicURL = DefaultIdentServerURL
	}
	is.PublicURL = strings.TrimRight(is.PublicURL, "/")
	if is.Image.Width == 0 {
		is.Image.Width = pixel.DefaultWidth
	}
	if is.Image.MaxAgeDays == 0 {
		is.Image.MaxAgeDays = DefaultMaxAgeDays
	}
	if is.Sink.Backend == "" {
		is.Sink.Backend = "jsonl"
	}
	if is.Sink.Path == "" {
		switch is.Sink.Backend {
		case "sqlite":
			is.Sink.Path = "logs.sqlite"
		default:
			is.Sink.Path = DefaultSinkPath
		}
	}
	if is.Sink.RedisKey == "" {
		is.Sink.RedisKey = DefaultRedisKey
	}
	if is.Results.Path == "" {
		is.Results.Path = DefaultResultsPath
	}

	// ------------------------------------------------------------
	// DOMAIN SERVER
	// ------------------------------------------------------------

	d := &cfg.Domain
	if d.Listen == "" {
		d.Listen = DefaultDomainListen
	}
	if d.IdentServerURL == "" {
		d.IdentServerURL = is.PublicURL
	}
	d.IdentServerURL = strings.TrimRight(d.IdentServerURL, "/")
	if d.RelayTimeoutMs == 0 {
		d.RelayTimeoutMs = DefaultRelayTimeoutMs
	}

	// ------------------------------------------------------------
	// CLIENT
	// ------------------------------------------------------------

	c := &cfg.Client
	if c.Mode == "" {
		c.Mode = "cross"
	}
	if c.FrameURL == "" {
		if c.Mode == "proxy" {
			c.FrameURL = DefaultDomainURL + "/3ds-method-proxy"
		} else {
			c.FrameURL = d.IdentServerURL + "/3ds-method-cross"
		}
	}
	origin := originOf(c.FrameURL)
	if c.ImageURL == "" {
		// The image is always fetched from the origin the frame runs in.
		if c.Mode == "proxy" {
			c.ImageURL = origin + "/proxy-cache.png"
		} else {
			c.ImageURL = origin + "/cache-image"
		}
	}
	if c.LogURL == "" {
		c.LogURL = d.IdentServerURL + "/log"
	}
	if c.ResultsURL == "" {
		c.ResultsURL = d.IdentServerURL + "/save-test-result"
	}
	if c.StateDir == "" {
		c.StateDir = DefaultStateDir
	}
	if c.Browser == "" {
		c.Browser = DefaultBrowser
	}
	if c.Width == 0 {
		c.Width = pixel.DefaultWidth
	}
	if c.ReadTimeoutMs == 0 {
		c.ReadTimeoutMs = DefaultReadTimeoutMs
	}
}

// originOf returns scheme://host of raw, or raw unchanged if it does not parse.
func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.TrimRight(raw, "/")
	}
	return u.Scheme + "://" + u.Host
}
