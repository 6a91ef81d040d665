// internal/logsink/sqlite.go
package logsink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS log_entries (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	uid   TEXT NOT NULL,
	mode  TEXT NOT NULL,
	entry TEXT NOT NULL
)`

// SQLiteStore keeps entries in one table; the autoincrement key is
// the append order.
type SQLiteStore struct {
	pool   *sqlitex.Pool
	logger *slog.Logger
}

func NewSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("logsink: sqlite path required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("logsink: sqlite dir: %w", err)
		}
	}

	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize: 4,
		PrepareConn: func(conn *sqlite.Conn) error {
			for _, stmt := range []string{
				"PRAGMA journal_mode=WAL",
				"PRAGMA busy_timeout=5000",
				sqliteSchema,
			} {
				if err := sqlitex.ExecuteTransient(conn, stmt, nil); err != nil {
					return err
				}
			}
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("logsink: sqlite open %s: %w", path, err)
	}
	return &SQLiteStore{pool: pool, logger: logger}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, e Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("logsink: encode: %w", err)
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("logsink: sqlite take: %w", err)
	}
	defer s.pool.Put(conn)

	if err := sqlitex.Execute(conn,
		`INSERT INTO log_entries (uid, mode, entry) VALUES (?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{e.UID, e.Mode, string(raw)}},
	); err != nil {
		return fmt.Errorf("logsink: sqlite insert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ReadAll(ctx context.Context) ([]Entry, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("logsink: sqlite take: %w", err)
	}
	defer s.pool.Put(conn)

	out := []Entry{}
	err = sqlitex.Execute(conn, `SELECT id, entry FROM log_entries ORDER BY id`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			var e Entry
			if err := json.Unmarshal([]byte(stmt.ColumnText(1)), &e); err != nil {
				s.logger.Warn("skipping corrupt log row", "id", stmt.ColumnInt64(0), "error", err)
				return nil
			}
			out = append(out, e)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("logsink: sqlite select: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Close() error { return s.pool.Close() }
