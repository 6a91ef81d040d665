// internal/logsink/handler.go
package logsink

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/Spaceonmymind/even-cookie-fp/internal/clock"
)

// maxEntrySize bounds one POST /log body.
const maxEntrySize = 64 << 10

// Handler exposes a Store over HTTP.
type Handler struct {
	store  Store
	clock  clock.Clock
	logger *slog.Logger
}

func NewHandler(store Store, clk clock.Clock, logger *slog.Logger) *Handler {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{store: store, clock: clk, logger: logger}
}

// Append handles POST /log. A missing timestamp is filled from the
// server clock.
func (h *Handler) Append(w http.ResponseWriter, r *http.Request) {
	var e Entry
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEntrySize))
	if err := dec.Decode(&e); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid log entry"})
		return
	}
	if !e.hasTimestamp() {
		e.Timestamp = stamp(h.clock.Now())
	}

	if err := h.store.Append(r.Context(), e); err != nil {
		h.logger.Error("log append failed", "uid", e.UID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "log store unavailable"})
		return
	}

	h.logger.Info("log entry stored", "uid", e.UID, "mode", e.Mode)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// List handles GET /logs.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ReadAll(r.Context())
	if err != nil {
		h.logger.Error("log read failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "log store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
