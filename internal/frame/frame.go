// internal/frame/frame.go
package frame

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Spaceonmymind/even-cookie-fp/internal/clock"
	"github.com/Spaceonmymind/even-cookie-fp/internal/logsink"
	"github.com/Spaceonmymind/even-cookie-fp/internal/reconcile"
)

// DefaultLogTimeout bounds the background log post.
const DefaultLogTimeout = 5 * time.Second

// Reconciler is the part of reconcile.Reconciler the frame needs.
type Reconciler interface {
	Reconcile(ctx context.Context) reconcile.Outcome
}

// Notifier delivers the message to the embedding page.
type Notifier interface {
	Notify(ctx context.Context, m Message) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, m Message) error

func (f NotifierFunc) Notify(ctx context.Context, m Message) error { return f(ctx, m) }

// LogClient appends one entry to the log sink.
type LogClient interface {
	Append(ctx context.Context, e logsink.Entry) error
}

type Config struct {
	Mode      Mode
	UserAgent string

	LogTimeout time.Duration
	Clock      clock.Clock
	Logger     *slog.Logger
}

// Frame is the headless counterpart of the served frame document:
// one pass, one parent notification, one best-effort log entry.
type Frame struct {
	cfg      Config
	rec      Reconciler
	notifier Notifier
	logs     LogClient

	wg sync.WaitGroup
}

// New wires a frame. logs may be nil, in which case nothing is logged.
func New(cfg Config, rec Reconciler, notifier Notifier, logs LogClient) (*Frame, error) {
	if rec == nil {
		return nil, errors.New("frame: reconciler required")
	}
	if notifier == nil {
		return nil, errors.New("frame: notifier required")
	}
	if _, err := ParseMode(string(cfg.Mode)); err != nil {
		return nil, err
	}
	if cfg.LogTimeout <= 0 {
		cfg.LogTimeout = DefaultLogTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Frame{cfg: cfg, rec: rec, notifier: notifier, logs: logs}, nil
}

// Run performs one pass and notifies the parent. The log entry is sent
// in the background; its outcome never affects the returned message.
func (f *Frame) Run(ctx context.Context) (Message, error) {
	out := f.rec.Reconcile(ctx)

	msg := Message{
		Type:     MessageType,
		ID:       out.ID,
		Mode:     f.cfg.Mode,
		Channels: out.Snapshot,
	}

	err := f.notifier.Notify(ctx, msg)
	if err != nil {
		f.cfg.Logger.Warn("parent notification failed", "uid", msg.ID, "error", err)
	}

	if f.logs != nil {
		entry := logsink.NewEntry(msg.ID, string(msg.Mode), msg.Channels, f.cfg.UserAgent, f.cfg.Clock.Now())
		f.wg.Add(1)
		go f.sendLog(entry)
	}

	return msg, err
}

// Wait blocks until every background log post has finished.
func (f *Frame) Wait() { f.wg.Wait() }

func (f *Frame) sendLog(e logsink.Entry) {
	defer f.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), f.cfg.LogTimeout)
	defer cancel()

	if err := f.logs.Append(ctx, e); err != nil {
		f.cfg.Logger.Debug("log post dropped", "uid", e.UID, "error", err)
	}
}
