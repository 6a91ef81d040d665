// internal/channel/channel_test.go
package channel

import (
	"context"
	"errors"
	"testing"
)

func TestResultConstructors(t *testing.T) {
	if r := Found("abc"); !r.Present() || r.Value != "abc" {
		t.Fatalf("Found: %+v", r)
	}
	if r := Found(""); r.Present() || r.Status != StatusAbsent {
		t.Fatalf("Found(empty) should be absent: %+v", r)
	}
	if r := Absent(); r.Present() {
		t.Fatalf("Absent present: %+v", r)
	}
	r := Unavailable(nil)
	if r.Present() || !errors.Is(r.Err, ErrUnavailable) {
		t.Fatalf("Unavailable(nil): %+v", r)
	}
	if r.Status.String() != "unavailable" {
		t.Fatalf("status string %q", r.Status.String())
	}
}

func TestOrder_IsFixedPrecedence(t *testing.T) {
	want := []Name{Cookie, LocalStorage, SessionStorage, IndexedDB, PNGCache}
	if len(Order) != len(want) {
		t.Fatalf("len(Order) = %d", len(Order))
	}
	for i := range want {
		if Order[i] != want[i] {
			t.Fatalf("Order[%d] = %s, want %s", i, Order[i], want[i])
		}
	}
}

func TestSession_ReadWriteClear(t *testing.T) {
	ctx := context.Background()
	s := NewSession()

	if r := s.Read(ctx, DefaultKey); r.Present() {
		t.Fatalf("fresh session should be empty: %+v", r)
	}
	if err := s.Write(ctx, DefaultKey, "v1"); err != nil {
		t.Fatalf("Write err=%v", err)
	}
	if r := s.Read(ctx, DefaultKey); r.Value != "v1" {
		t.Fatalf("Read = %+v", r)
	}
	if err := s.Clear(ctx, DefaultKey); err != nil {
		t.Fatalf("Clear err=%v", err)
	}
	if r := s.Read(ctx, DefaultKey); r.Present() {
		t.Fatalf("after Clear: %+v", r)
	}

	_ = s.Write(ctx, DefaultKey, "v2")
	s.EndSession()
	if r := s.Read(ctx, DefaultKey); r.Present() {
		t.Fatalf("after EndSession: %+v", r)
	}
}

func TestSession_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSession()
	if r := s.Read(ctx, DefaultKey); r.Status != StatusUnavailable {
		t.Fatalf("expected unavailable, got %+v", r)
	}
	if err := s.Write(ctx, DefaultKey, "x"); err == nil {
		t.Fatalf("expected error on cancelled context")
	}
}
