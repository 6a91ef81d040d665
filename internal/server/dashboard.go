// internal/server/dashboard.go
package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Spaceonmymind/even-cookie-fp/internal/logsink"
	"github.com/Spaceonmymind/even-cookie-fp/internal/results"
)

//go:embed templates/*.tmpl
var templates embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"pretty": func(v any) string {
		raw, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return ""
		}
		return string(raw)
	},
}).ParseFS(templates, "templates/*.tmpl"))

const dashboardFetchTimeout = 5 * time.Second

// dashboard renders read-only views over the identity server's data.
type dashboard struct {
	ident  string
	client *http.Client
	logger *slog.Logger
}

func newDashboard(ident string, client *http.Client, logger *slog.Logger) *dashboard {
	if client == nil {
		client = &http.Client{Timeout: dashboardFetchTimeout}
	}
	return &dashboard{ident: ident, client: client, logger: logger}
}

func (d *dashboard) index(w http.ResponseWriter, r *http.Request) {
	d.render(w, "index.html.tmpl", nil)
}

// logs shows an empty table when the identity server is unreachable.
func (d *dashboard) logs(w http.ResponseWriter, r *http.Request) {
	var entries []logsink.Entry
	if err := d.fetch(r.Context(), "/logs", &entries); err != nil {
		d.logger.Warn("dashboard logs unavailable", "error", err)
	}
	d.render(w, "logs.html.tmpl", entries)
}

type resultRow struct {
	results.Record
	OK bool
}

type resultsPage struct {
	Rows   []resultRow
	Stable int
	Total  int
}

func (d *dashboard) results(w http.ResponseWriter, r *http.Request) {
	var records []results.Record
	if err := d.fetch(r.Context(), "/test-results", &records); err != nil {
		d.logger.Warn("dashboard results unavailable", "error", err)
	}

	page := resultsPage{Total: len(records)}
	for _, rec := range records {
		row := resultRow{Record: rec, OK: rec.Stable()}
		if row.OK {
			page.Stable++
		}
		page.Rows = append(page.Rows, row)
	}
	d.render(w, "results.html.tmpl", page)
}

func (d *dashboard) fetch(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.ident+path, nil)
	if err != nil {
		return err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server: %s returned %s", path, resp.Status)
	}
	return json.NewDecoder(io.LimitReader(resp.Body, 32<<20)).Decode(v)
}

func (d *dashboard) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		d.logger.Error("render dashboard failed", "page", name, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
