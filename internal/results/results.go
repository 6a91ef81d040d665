// internal/results/results.go
package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/Spaceonmymind/even-cookie-fp/internal/atomicfile"
)

// Record is one browser test result: the identifiers observed before
// and after the stand's storage-clearing step.
type Record struct {
	Browser string `json:"browser"`
	Stand   string `json:"stand"`
	UID1    string `json:"uid1"`
	UID2    string `json:"uid2"`
}

// Stable reports whether the identifier survived.
func (r Record) Stable() bool { return r.UID1 != "" && r.UID1 == r.UID2 }

// FileStore keeps all records as one JSON array, rewritten on every save.
type FileStore struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

func NewFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("results: path required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FileStore{path: path, logger: logger}, nil
}

func (s *FileStore) Save(ctx context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.load()
	all = append(all, r)

	raw, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("results: encode: %w", err)
	}
	if err := atomicfile.Write(s.path, raw); err != nil {
		return fmt.Errorf("results: write %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

// load treats a missing or unreadable file as no results.
func (s *FileStore) load() []Record {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("results file unreadable", "path", s.path, "error", err)
		}
		return []Record{}
	}
	var out []Record
	if err := json.Unmarshal(raw, &out); err != nil {
		s.logger.Warn("results file corrupt, starting over", "path", s.path, "error", err)
		return []Record{}
	}
	if out == nil {
		out = []Record{}
	}
	return out
}
