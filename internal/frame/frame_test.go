// internal/frame/frame_test.go
package frame

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Spaceonmymind/even-cookie-fp/internal/channel"
	"github.com/Spaceonmymind/even-cookie-fp/internal/clock"
	"github.com/Spaceonmymind/even-cookie-fp/internal/logsink"
	"github.com/Spaceonmymind/even-cookie-fp/internal/reconcile"
)

type fakeReconciler struct{ out reconcile.Outcome }

func (f fakeReconciler) Reconcile(ctx context.Context) reconcile.Outcome { return f.out }

type captureLog struct {
	mu      sync.Mutex
	entries []logsink.Entry
	err     error
	delay   time.Duration
}

func (c *captureLog) Append(ctx context.Context, e logsink.Entry) error {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries = append(c.entries, e)
	return nil
}

func outcome(id string) reconcile.Outcome {
	return reconcile.Outcome{
		ID:       id,
		Source:   reconcile.Source(channel.LocalStorage),
		Snapshot: reconcile.Snapshot{}.With(channel.LocalStorage, id),
	}
}

// ---- tests ----

func TestRun_NotifiesAndLogs(t *testing.T) {
	now := time.Date(2026, 7, 8, 9, 10, 11, 0, time.UTC)
	var got []Message
	notify := NotifierFunc(func(ctx context.Context, m Message) error {
		got = append(got, m)
		return nil
	})
	logs := &captureLog{}

	f, err := New(Config{Mode: Proxy, UserAgent: "go-test", Clock: clock.NewFake(now)},
		fakeReconciler{outcome("uid-1")}, notify, logs)
	if err != nil {
		t.Fatalf("New err=%v", err)
	}

	msg, err := f.Run(context.Background())
	if err != nil {
		t.Fatalf("Run err=%v", err)
	}
	f.Wait()

	if msg.Type != MessageType || msg.ID != "uid-1" || msg.Mode != Proxy {
		t.Fatalf("msg = %+v", msg)
	}
	if len(got) != 1 || got[0].ID != "uid-1" {
		t.Fatalf("notified %+v", got)
	}
	if v, ok := msg.Channels.Get(channel.LocalStorage); !ok || v != "uid-1" {
		t.Fatalf("channels = %+v", msg.Channels)
	}

	if len(logs.entries) != 1 {
		t.Fatalf("log entries = %d", len(logs.entries))
	}
	e := logs.entries[0]
	if e.UID != "uid-1" || e.Mode != "proxy" || e.UserAgent != "go-test" {
		t.Fatalf("entry = %+v", e)
	}
	if ts, ok := e.Time(); !ok || !ts.Equal(now) {
		t.Fatalf("entry timestamp = %s", e.Timestamp)
	}
	if v, ok := e.Channel("localStorage"); !ok || v != "uid-1" {
		t.Fatalf("entry channels = %s", e.Channels)
	}
}

func TestRun_LogFailureDoesNotAffectNotification(t *testing.T) {
	notified := false
	notify := NotifierFunc(func(ctx context.Context, m Message) error {
		notified = true
		return nil
	})
	logs := &captureLog{err: errors.New("sink down")}

	f, _ := New(Config{Mode: Cross}, fakeReconciler{outcome("x")}, notify, logs)
	msg, err := f.Run(context.Background())
	f.Wait()

	if err != nil || !notified || msg.ID != "x" {
		t.Fatalf("msg=%+v err=%v notified=%v", msg, err, notified)
	}
}

func TestRun_DoesNotWaitForLog(t *testing.T) {
	notify := NotifierFunc(func(ctx context.Context, m Message) error { return nil })
	logs := &captureLog{delay: 300 * time.Millisecond}

	f, _ := New(Config{Mode: Cross}, fakeReconciler{outcome("x")}, notify, logs)

	start := time.Now()
	if _, err := f.Run(context.Background()); err != nil {
		t.Fatalf("Run err=%v", err)
	}
	if time.Since(start) > 200*time.Millisecond {
		t.Fatalf("Run blocked on the log post")
	}
	f.Wait()
	if len(logs.entries) != 1 {
		t.Fatalf("log entries = %d", len(logs.entries))
	}
}

func TestRun_NotifierErrorReturned(t *testing.T) {
	notify := NotifierFunc(func(ctx context.Context, m Message) error { return errors.New("no parent") })
	f, _ := New(Config{Mode: Cross}, fakeReconciler{outcome("x")}, notify, nil)

	msg, err := f.Run(context.Background())
	if err == nil || msg.ID != "x" {
		t.Fatalf("msg=%+v err=%v", msg, err)
	}
}

func TestNew_Validation(t *testing.T) {
	notify := NotifierFunc(func(ctx context.Context, m Message) error { return nil })
	if _, err := New(Config{Mode: "side"}, fakeReconciler{}, notify, nil); err == nil {
		t.Fatalf("expected mode error")
	}
	if _, err := New(Config{Mode: Cross}, nil, notify, nil); err == nil {
		t.Fatalf("expected reconciler error")
	}
	if _, err := New(Config{Mode: Cross}, fakeReconciler{}, nil, nil); err == nil {
		t.Fatalf("expected notifier error")
	}
}

func TestMode(t *testing.T) {
	if Cross.SameSite() != "None" || Proxy.SameSite() != "Lax" {
		t.Fatalf("SameSite mapping wrong")
	}
	if _, err := ParseMode("proxy"); err != nil {
		t.Fatalf("ParseMode(proxy) err=%v", err)
	}
}
