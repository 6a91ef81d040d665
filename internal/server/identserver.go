// internal/server/identserver.go
package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"

	"github.com/Spaceonmymind/even-cookie-fp/internal/clock"
	"github.com/Spaceonmymind/even-cookie-fp/internal/frame"
	"github.com/Spaceonmymind/even-cookie-fp/internal/logsink"
	"github.com/Spaceonmymind/even-cookie-fp/internal/results"
	"github.com/Spaceonmymind/even-cookie-fp/internal/validator"
)

// IdentServer bundles what the third-party server exposes.
type IdentServer struct {
	Images  *validator.Service
	Logs    logsink.Store
	Results *results.FileStore

	// Width and ReadTimeout are handed to the cross frame.
	Width       int
	ReadTimeout time.Duration

	Clock  clock.Clock
	Logger *slog.Logger
}

// Router builds the third-party server: cache image, cross frame,
// log sink and test results.
func (s IdentServer) Router() (http.Handler, error) {
	if s.Images == nil || s.Logs == nil || s.Results == nil {
		return nil, errors.New("server: identserver needs images, logs and results")
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	logs := logsink.NewHandler(s.Logs, s.Clock, logger)
	res := results.NewHandler(s.Results, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", healthz)

	img := s.Images.Handler()
	r.Method(http.MethodGet, "/cache-image", img)
	r.Method(http.MethodHead, "/cache-image", img)
	r.Method(http.MethodGet, "/cache.png", img)

	r.Method(http.MethodGet, "/3ds-method-cross", frame.Document(frame.DocumentConfig{
		Mode:     frame.Cross,
		ImageURL: "/cache-image",
		LogURL:   "/log",
		Width:    s.Width,
		Timeout:  s.ReadTimeout,
	}, logger))
	r.Method(http.MethodGet, frame.StaticPrefix+"*", frame.Static())

	r.Group(func(api chi.Router) {
		api.Use(openCORS)

		api.Post("/log", logs.Append)
		api.Options("/log", noop)
		api.Method(http.MethodGet, "/logs", gzhttp.GzipHandler(http.HandlerFunc(logs.List)))

		api.Post("/save-test-result", res.Save)
		api.Options("/save-test-result", noop)
		api.Method(http.MethodGet, "/test-results", gzhttp.GzipHandler(http.HandlerFunc(res.List)))
	})

	return r, nil
}

// noop is routed so chi does not answer preflights with 405 before
// openCORS sees them.
func noop(w http.ResponseWriter, r *http.Request) {}
