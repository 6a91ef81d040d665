// internal/logsink/store.go
package logsink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	cfg "github.com/Spaceonmymind/even-cookie-fp/internal/config"
)

// Store is an append-only log of entries. ReadAll returns entries in
// append order. Implementations are safe for concurrent use.
type Store interface {
	Append(ctx context.Context, e Entry) error
	ReadAll(ctx context.Context) ([]Entry, error)
	Close() error
}

var ErrClosed = errors.New("logsink: store closed")

// Open builds the store selected by the sink config.
// Assumes config has already been validated and normalized.
func Open(c cfg.SinkConfig, logger *slog.Logger) (Store, error) {
	var (
		st  Store
		err error
	)
	// Each constructor returns a concrete pointer; a failed one must not
	// leak out as a non-nil Store holding a nil pointer.
	switch c.Backend {
	case "jsonl":
		var j *JSONLStore
		if j, err = NewJSONL(c.Path, logger); err == nil {
			st = j
		}
	case "sqlite":
		var q *SQLiteStore
		if q, err = NewSQLite(c.Path, logger); err == nil {
			st = q
		}
	case "redis":
		var r *RedisStore
		if r, err = NewRedis(RedisConfig{Addr: c.RedisAddr, Key: c.RedisKey, Logger: logger}); err == nil {
			st = r
		}
	case "memory":
		st = NewMemory()
	default:
		err = fmt.Errorf("logsink: unknown backend %q", c.Backend)
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}
