// internal/results/handler.go
package results

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

const maxRecordSize = 16 << 10

type Handler struct {
	store  *FileStore
	logger *slog.Logger
}

func NewHandler(store *FileStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{store: store, logger: logger}
}

// Save handles POST /save-test-result.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var rec Record
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRecordSize)).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid test result"})
		return
	}
	if err := h.store.Save(r.Context(), rec); err != nil {
		h.logger.Error("saving test result failed", "browser", rec.Browser, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "results store unavailable"})
		return
	}
	h.logger.Info("test result saved",
		"browser", rec.Browser,
		"stand", rec.Stand,
		"stable", rec.Stable(),
	)
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// List handles GET /test-results.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "results store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
