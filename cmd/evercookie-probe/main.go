// cmd/evercookie-probe/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/Spaceonmymind/even-cookie-fp/internal/channel"
	"github.com/Spaceonmymind/even-cookie-fp/internal/config"
	"github.com/Spaceonmymind/even-cookie-fp/internal/frame"
	"github.com/Spaceonmymind/even-cookie-fp/internal/logsink"
	"github.com/Spaceonmymind/even-cookie-fp/internal/reconcile"
	"github.com/Spaceonmymind/even-cookie-fp/internal/results"
)

// clear modes applied between passes
const (
	clearNone    = "none"
	clearStorage = "storage"
	clearAll     = "all"
)

type options struct {
	cfgPath  string
	mode     string
	stateDir string
	browser  string
	passes   int
	interval time.Duration
	clear    string
	report   bool
	watch    bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "evercookie-probe: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opt options

	flags := pflag.NewFlagSet("evercookie-probe", pflag.ContinueOnError)
	flags.StringVarP(&opt.cfgPath, "config", "c", "", "path to YAML config (defaults apply when empty)")
	flags.StringVar(&opt.mode, "mode", "", "delivery mode: cross or proxy (overrides client.mode)")
	flags.StringVar(&opt.stateDir, "state-dir", "", "profile directory (overrides client.state_dir)")
	flags.StringVar(&opt.browser, "browser", "", "browser label for reported results (overrides client.browser)")
	flags.IntVar(&opt.passes, "passes", 2, "number of frame loads")
	flags.DurationVar(&opt.interval, "interval", time.Second, "delay between passes")
	flags.StringVar(&opt.clear, "clear", clearStorage, "what to clear between passes: none, storage, all")
	flags.BoolVar(&opt.report, "report", false, "post {browser, stand, uid1, uid2} to the results endpoint")
	flags.BoolVar(&opt.watch, "watch", false, "reconcile at --interval until interrupted, without the frame")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	switch opt.clear {
	case clearNone, clearStorage, clearAll:
	default:
		return fmt.Errorf("--clear %q: must be none, storage or all", opt.clear)
	}
	if opt.passes < 1 {
		return fmt.Errorf("--passes must be >= 1")
	}

	cfg, err := config.Resolve(opt.cfgPath, func(c *config.Config) {
		if opt.mode != "" {
			c.Client.Mode = opt.mode
		}
		if opt.stateDir != "" {
			c.Client.StateDir = opt.stateDir
		}
		if opt.browser != "" {
			c.Client.Browser = opt.browser
		}
	})
	if err != nil {
		return err
	}
	cc := cfg.Client

	runID := uuid.NewString()
	logger := cfg.Log.NewLogger(os.Stderr).With("run_id", runID, "mode", cc.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: cc.ReadTimeout()}

	set, err := reconcile.Build(cc, reconcile.Deps{
		HTTPClient: httpClient,
		Logger:     logger.With("component", "channel"),
	})
	if err != nil {
		return err
	}
	defer set.Close()

	rec, err := reconcile.New(reconcile.Config{
		Timeout: cc.ReadTimeout(),
		Logger:  logger.With("component", "reconcile"),
	}, set.All()...)
	if err != nil {
		return err
	}

	if opt.watch {
		return watch(ctx, rec, opt.interval, os.Stdout, logger)
	}

	logs, err := logsink.NewClient(logsink.ClientConfig{URL: cc.LogURL, HTTPClient: httpClient})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	notify := frame.NotifierFunc(func(ctx context.Context, m frame.Message) error {
		return enc.Encode(m)
	})

	f, err := frame.New(frame.Config{
		Mode:      frame.Mode(cc.Mode),
		UserAgent: "evercookie-probe/" + cc.Browser,
		Logger:    logger,
	}, rec, notify, logs)
	if err != nil {
		return err
	}
	defer f.Wait()

	ids, err := passes(ctx, f, set, opt, logger)
	if err != nil {
		return err
	}

	first, last := ids[0], ids[len(ids)-1]
	stable := first == last
	logger.Info("probe finished", "uid1", first, "uid2", last, "stable", stable, "passes", len(ids))

	if opt.report {
		err := results.Post(ctx, httpClient, cc.ResultsURL, results.Record{
			Browser: cc.Browser,
			Stand:   cc.Mode,
			UID1:    first,
			UID2:    last,
		})
		if err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	return nil
}

// passes loads the frame opt.passes times, clearing between loads.
func passes(ctx context.Context, f *frame.Frame, set *reconcile.Set, opt options, logger *slog.Logger) ([]string, error) {
	ids := make([]string, 0, opt.passes)

	for i := 0; i < opt.passes; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(opt.interval):
			}
			if err := clearBetween(ctx, set, opt.clear); err != nil {
				logger.Warn("clear failed", "error", err)
			}
			// A new frame load is a new browsing session.
			set.Session.EndSession()
		}

		msg, err := f.Run(ctx)
		if err != nil {
			logger.Warn("notify failed", "error", err)
		}
		ids = append(ids, msg.ID)
	}
	return ids, nil
}

func clearBetween(ctx context.Context, set *reconcile.Set, mode string) error {
	switch mode {
	case clearStorage:
		return set.ClearStorage(ctx, channel.DefaultKey)
	case clearAll:
		return set.Clear(ctx, channel.DefaultKey)
	default:
		return nil
	}
}

// watch prints one JSON line per pass until ctx is done.
func watch(ctx context.Context, rec *reconcile.Reconciler, interval time.Duration, w io.Writer, logger *slog.Logger) error {
	out := make(chan reconcile.Outcome)
	go func() {
		rec.Run(ctx, interval, 0, out)
		close(out)
	}()

	enc := json.NewEncoder(w)
	for o := range out {
		if o.WriteErr != nil {
			logger.Warn("write-back incomplete", "uid", o.ID, "error", o.WriteErr)
		}
		if err := enc.Encode(struct {
			ID       string             `json:"id"`
			Source   reconcile.Source   `json:"source"`
			At       time.Time          `json:"at"`
			Channels reconcile.Snapshot `json:"channels"`
		}{o.ID, o.Source, o.At, o.Snapshot}); err != nil {
			return err
		}
	}
	return nil
}
