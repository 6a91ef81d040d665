// internal/reconcile/reconciler.go
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Spaceonmymind/even-cookie-fp/internal/channel"
	"github.com/Spaceonmymind/even-cookie-fp/internal/clock"
	"github.com/Spaceonmymind/even-cookie-fp/internal/identity"
)

// DefaultTimeout bounds one channel read or write.
const DefaultTimeout = 3 * time.Second

// Config is the minimal runtime config the reconciler needs.
type Config struct {
	// Key is the record name on every channel. Empty means channel.DefaultKey.
	Key string

	// Timeout bounds each individual read and write. A channel that
	// does not answer in time counts as absent.
	Timeout time.Duration

	// NewID mints an identifier when no channel holds one.
	NewID func() string

	Clock  clock.Clock
	Logger *slog.Logger
}

// Reconciler reads every channel, picks the canonical identifier by
// fixed precedence and writes it back everywhere.
type Reconciler struct {
	cfg      Config
	channels map[channel.Name]channel.Channel
}

// New creates a reconciler over the given channels. Channels may be
// passed in any order; precedence always follows channel.Order.
func New(cfg Config, channels ...channel.Channel) (*Reconciler, error) {
	if len(channels) == 0 {
		return nil, errors.New("reconcile: at least one channel required")
	}
	if cfg.Key == "" {
		cfg.Key = channel.DefaultKey
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.NewID == nil {
		cfg.NewID = identity.New
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	known := make(map[channel.Name]bool, len(channel.Order))
	for _, n := range channel.Order {
		known[n] = true
	}

	byName := make(map[channel.Name]channel.Channel, len(channels))
	for _, ch := range channels {
		if ch == nil {
			return nil, errors.New("reconcile: nil channel")
		}
		name := ch.Name()
		if !known[name] {
			return nil, fmt.Errorf("reconcile: unknown channel %q", name)
		}
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("reconcile: duplicate channel %q", name)
		}
		byName[name] = ch
	}

	return &Reconciler{cfg: cfg, channels: byName}, nil
}

// Reconcile performs exactly one pass: read all, select, write all.
// It never fails; the worst case is a freshly minted identifier.
func (r *Reconciler) Reconcile(ctx context.Context) Outcome {
	out := Outcome{At: r.cfg.Clock.Now()}

	out.Reads = r.readAll(ctx)
	for _, name := range channel.Order {
		if res, ok := out.Reads[name]; ok && res.Present() {
			out.Snapshot = out.Snapshot.With(name, res.Value)
		}
	}

	out.ID, out.Source = r.choose(out.Snapshot)
	out.WriteErr = r.writeAll(ctx, out.ID)

	log := r.cfg.Logger.With("uid", out.ID, "source", string(out.Source))
	if out.WriteErr != nil {
		log.Warn("reconciliation write-back incomplete", "error", out.WriteErr)
	} else {
		log.Debug("reconciliation complete")
	}
	return out
}

// choose applies the precedence rule. The image value gets a second,
// explicit chance before new randomness is generated.
func (r *Reconciler) choose(s Snapshot) (string, Source) {
	for _, name := range channel.Order {
		if v, ok := s.Get(name); ok {
			return v, Source(name)
		}
	}
	if v, ok := s.Get(channel.PNGCache); ok {
		return v, Source(channel.PNGCache)
	}
	return r.cfg.NewID(), SourceGenerated
}

// readAll launches every read at once and waits for all of them.
// Latency is bounded by the slowest channel, capped by the timeout.
func (r *Reconciler) readAll(ctx context.Context) map[channel.Name]channel.Result {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[channel.Name]channel.Result, len(r.channels))
	)

	for name, ch := range r.channels {
		wg.Add(1)
		go func(name channel.Name, ch channel.Channel) {
			defer wg.Done()
			res := r.read(ctx, ch)

			r.cfg.Logger.Debug("channel read",
				"channel", string(name),
				"status", res.Status.String(),
				"error", res.Err,
			)

			mu.Lock()
			out[name] = res
			mu.Unlock()
		}(name, ch)
	}
	wg.Wait()
	return out
}

// read isolates one channel: a panic or a read that outlives the
// timeout becomes Unavailable instead of stalling the pass.
func (r *Reconciler) read(ctx context.Context, ch channel.Channel) channel.Result {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	done := make(chan channel.Result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- channel.Unavailable(fmt.Errorf("reconcile: channel %s panicked: %v", ch.Name(), p))
			}
		}()
		done <- ch.Read(ctx, r.cfg.Key)
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return channel.Unavailable(ctx.Err())
	}
}

// writeAll stamps id onto every channel, in precedence order,
// unconditionally. Failures are collected, never raised.
func (r *Reconciler) writeAll(ctx context.Context, id string) error {
	var errs []string

	for _, name := range channel.Order {
		ch, ok := r.channels[name]
		if !ok {
			continue
		}
		if err := r.write(ctx, ch, id); err != nil {
			errs = append(errs, fmt.Sprintf("reconcile: channel=%s err=%v", name, err))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}
	return nil
}

func (r *Reconciler) write(ctx context.Context, ch channel.Channel, id string) (err error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panicked: %v", p)
		}
	}()
	return ch.Write(ctx, r.cfg.Key, id)
}
