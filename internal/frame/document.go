// internal/frame/document.go
package frame

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DocumentConfig is everything the served frame needs. Values end up
// in data attributes only; no value is ever spliced into script.
type DocumentConfig struct {
	Mode     Mode
	ImageURL string
	LogURL   string
	Width    int
	Timeout  time.Duration

	// ScriptURL defaults to StaticPrefix + ScriptName.
	ScriptURL string
}

type documentData struct {
	Title     string
	Mode      Mode
	ImageURL  string
	LogURL    string
	Width     int
	TimeoutMs int64
	ScriptURL string
}

// Document serves the frame shell for one mode.
func Document(cfg DocumentConfig, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.ScriptURL == "" {
		cfg.ScriptURL = StaticPrefix + ScriptName
	}
	data := documentData{
		Title:     strings.ToUpper(string(cfg.Mode)),
		Mode:      cfg.Mode,
		ImageURL:  cfg.ImageURL,
		LogURL:    cfg.LogURL,
		Width:     cfg.Width,
		TimeoutMs: cfg.Timeout.Milliseconds(),
		ScriptURL: cfg.ScriptURL,
	}
	return renderHandler(frameTmpl.Execute, data, logger)
}

// StandConfig describes one embedding test page.
type StandConfig struct {
	Title       string
	Description string
	FrameURL    string
	ScriptURL   string
}

// Stand serves a page that embeds the frame invisibly and displays
// the message it posts.
func Stand(cfg StandConfig, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.ScriptURL == "" {
		cfg.ScriptURL = StaticPrefix + StandScriptName
	}
	return renderHandler(standTmpl.Execute, cfg, logger)
}

func renderHandler(exec func(io.Writer, any) error, data any, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := exec(&buf, data); err != nil {
			logger.Error("render page failed", "path", r.URL.Path, "error", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(buf.Bytes())
	})
}
