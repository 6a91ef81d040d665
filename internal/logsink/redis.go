// internal/logsink/redis.go
package logsink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr   string
	Key    string
	Logger *slog.Logger
}

// RedisStore keeps entries on one Redis list: RPUSH to append,
// LRANGE 0 -1 to read back in order.
type RedisStore struct {
	rdb    *redis.Client
	key    string
	logger *slog.Logger
}

func NewRedis(cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New("logsink: redis addr required")
	}
	if cfg.Key == "" {
		return nil, errors.New("logsink: redis key required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RedisStore{
		rdb:    redis.NewClient(&redis.Options{Addr: cfg.Addr}),
		key:    cfg.Key,
		logger: cfg.Logger,
	}, nil
}

func (s *RedisStore) Append(ctx context.Context, e Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("logsink: encode: %w", err)
	}
	if err := s.rdb.RPush(ctx, s.key, raw).Err(); err != nil {
		return fmt.Errorf("logsink: redis rpush: %w", err)
	}
	return nil
}

func (s *RedisStore) ReadAll(ctx context.Context) ([]Entry, error) {
	items, err := s.rdb.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("logsink: redis lrange: %w", err)
	}
	out := make([]Entry, 0, len(items))
	for i, item := range items {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			s.logger.Warn("skipping corrupt log item", "key", s.key, "index", i, "error", err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
