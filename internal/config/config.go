// internal/config/config.go
package config

import "time"

type Config struct {
	Log         LogConfig         `yaml:"log"`
	IdentServer IdentServerConfig `yaml:"identserver"`
	Domain      DomainConfig      `yaml:"domain"`
	Client      ClientConfig      `yaml:"client"`
}

// ---- LOGGING ----

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// ---- THIRD-PARTY IDENTITY SERVER ----

type IdentServerConfig struct {
	Listen    string        `yaml:"listen"`
	PublicURL string        `yaml:"public_url"`
	Image     ImageConfig   `yaml:"image"`
	Sink      SinkConfig    `yaml:"sink"`
	Results   ResultsConfig `yaml:"results"`
}

type ImageConfig struct {
	Width      int `yaml:"width"`
	MaxAgeDays int `yaml:"max_age_days"`
}

type SinkConfig struct {
	Backend   string `yaml:"backend"` // jsonl | sqlite | redis | memory
	Path      string `yaml:"path"`
	RedisAddr string `yaml:"redis_addr"`
	RedisKey  string `yaml:"redis_key"`
}

type ResultsConfig struct {
	Path string `yaml:"path"`
}

// ---- FIRST-PARTY EMBEDDING SERVER ----

type DomainConfig struct {
	Listen         string `yaml:"listen"`
	IdentServerURL string `yaml:"identserver_url"`
	RelayTimeoutMs int    `yaml:"relay_timeout_ms"`
}

// ---- HEADLESS CLIENT ----

type ClientConfig struct {
	Mode          string `yaml:"mode"`      // cross | proxy
	FrameURL      string `yaml:"frame_url"` // document URL the frame runs at
	ImageURL      string `yaml:"image_url"`
	LogURL        string `yaml:"log_url"`
	ResultsURL    string `yaml:"results_url"`
	StateDir      string `yaml:"state_dir"`
	Browser       string `yaml:"browser"`
	Width         int    `yaml:"width"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
}

func (c ClientConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMs) * time.Millisecond
}

func (d DomainConfig) RelayTimeout() time.Duration {
	return time.Duration(d.RelayTimeoutMs) * time.Millisecond
}

func (i ImageConfig) MaxAge() time.Duration {
	return time.Duration(i.MaxAgeDays) * 24 * time.Hour
}
