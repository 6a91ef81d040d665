// internal/channel/txstore.go
package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const (
	// TxDatabase and TxStoreName name the database and its single
	// object store.
	TxDatabase  = "evercookieDB"
	TxStoreName = "store"
)

const txSchema = `CREATE TABLE IF NOT EXISTS store (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// TxConfig configures the transactional store channel.
type TxConfig struct {
	// Dir holds the database file. Required.
	Dir string

	Logger *slog.Logger
}

// TxChannel is the IndexedDB analogue: one named record inside a
// per-origin SQLite database that is created lazily on first use.
// Every put runs in an IMMEDIATE transaction.
type TxChannel struct {
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	pool *sqlitex.Pool
}

func NewTx(cfg TxConfig) (*TxChannel, error) {
	if cfg.Dir == "" {
		return nil, errors.New("channel: transactional store dir required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = discardLogger()
	}
	return &TxChannel{
		path:   filepath.Join(cfg.Dir, TxDatabase+".sqlite"),
		logger: logger,
	}, nil
}

func (t *TxChannel) Name() Name { return IndexedDB }

func (t *TxChannel) Read(ctx context.Context, key string) Result {
	pool, err := t.open()
	if err != nil {
		return Unavailable(err)
	}
	conn, err := pool.Take(ctx)
	if err != nil {
		return Unavailable(fmt.Errorf("channel: tx take: %w", err))
	}
	defer pool.Put(conn)

	var value string
	err = sqlitex.Execute(conn, `SELECT value FROM store WHERE key = ?`, &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = stmt.ColumnText(0)
			return nil
		},
	})
	if err != nil {
		return Unavailable(fmt.Errorf("channel: tx get: %w", err))
	}
	return Found(value)
}

func (t *TxChannel) Write(ctx context.Context, key, value string) (err error) {
	pool, err := t.open()
	if err != nil {
		return err
	}
	conn, err := pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("channel: tx take: %w", err)
	}
	defer pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return fmt.Errorf("channel: tx begin: %w", err)
	}
	defer endTransaction(&err)

	err = sqlitex.Execute(conn,
		`INSERT INTO store (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		&sqlitex.ExecOptions{Args: []any{key, value}},
	)
	if err != nil {
		return fmt.Errorf("channel: tx put: %w", err)
	}
	return nil
}

func (t *TxChannel) Clear(ctx context.Context, key string) error {
	pool, err := t.open()
	if err != nil {
		return err
	}
	conn, err := pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("channel: tx take: %w", err)
	}
	defer pool.Put(conn)

	if err := sqlitex.Execute(conn, `DELETE FROM store WHERE key = ?`, &sqlitex.ExecOptions{
		Args: []any{key},
	}); err != nil {
		return fmt.Errorf("channel: tx delete: %w", err)
	}
	return nil
}

// Close releases the database if it was opened.
func (t *TxChannel) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pool == nil {
		return nil
	}
	err := t.pool.Close()
	t.pool = nil
	return err
}

// open creates the database and its object store on first use.
// Repeated calls return the same pool.
func (t *TxChannel) open() (*sqlitex.Pool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pool != nil {
		return t.pool, nil
	}

	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return nil, fmt.Errorf("channel: tx dir: %w", err)
	}

	pool, err := sqlitex.NewPool(t.path, sqlitex.PoolOptions{
		PoolSize: 2,
		PrepareConn: func(conn *sqlite.Conn) error {
			if err := sqlitex.ExecuteTransient(conn, "PRAGMA busy_timeout=5000", nil); err != nil {
				return err
			}
			return sqlitex.ExecuteTransient(conn, txSchema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("channel: tx open %s: %w", t.path, err)
	}
	t.pool = pool
	t.logger.Debug("transactional store opened", "path", t.path)
	return pool, nil
}
