// internal/server/domain.go
package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Spaceonmymind/even-cookie-fp/internal/frame"
	"github.com/Spaceonmymind/even-cookie-fp/internal/relay"
)

// Domain bundles what the first-party embedding server exposes.
type Domain struct {
	// IdentServerURL is the public base URL of the third-party server.
	IdentServerURL string
	Relay          *relay.Relay

	Width       int
	ReadTimeout time.Duration

	// Client fetches logs and results for the dashboard pages.
	Client *http.Client
	Logger *slog.Logger
}

// Router builds the embedding server: stand pages, proxy frame,
// image relay and dashboards.
func (d Domain) Router() (http.Handler, error) {
	if d.IdentServerURL == "" || d.Relay == nil {
		return nil, errors.New("server: domain needs identserver url and relay")
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ident := strings.TrimRight(d.IdentServerURL, "/")
	dash := newDashboard(ident, d.Client, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", healthz)
	r.Get("/", dash.index)

	r.Method(http.MethodGet, "/test-cross", frame.Stand(frame.StandConfig{
		Title:       "Stand A: cross-origin frame",
		Description: "The frame is loaded from the third-party identity server.",
		FrameURL:    ident + "/3ds-method-cross",
	}, logger))
	r.Method(http.MethodGet, "/test-proxy", frame.Stand(frame.StandConfig{
		Title:       "Stand B: same-origin proxy frame",
		Description: "The frame is first-party; the cache image is relayed through this origin.",
		FrameURL:    "/3ds-method-proxy",
	}, logger))

	r.Method(http.MethodGet, "/proxy-cache.png", d.Relay)
	r.Method(http.MethodGet, "/3ds-method-proxy", frame.Document(frame.DocumentConfig{
		Mode:     frame.Proxy,
		ImageURL: "/proxy-cache.png",
		LogURL:   ident + "/log",
		Width:    d.Width,
		Timeout:  d.ReadTimeout,
	}, logger))
	r.Method(http.MethodGet, frame.StaticPrefix+"*", frame.Static())

	r.Get("/view-logs", dash.logs)
	r.Get("/test-results", dash.results)

	return r, nil
}
