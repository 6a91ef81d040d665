// internal/channel/channel.go
package channel

import (
	"context"
	"errors"
)

// Name identifies one storage mechanism. The string values are the
// keys used in snapshots, log entries and parent messages.
type Name string

const (
	Cookie         Name = "cookie"
	LocalStorage   Name = "localStorage"
	SessionStorage Name = "sessionStorage"
	IndexedDB      Name = "indexedDB"
	PNGCache       Name = "pngCache"
)

// Order is the fixed precedence order used when choosing the canonical
// identifier. Callers MUST NOT reorder it.
var Order = []Name{Cookie, LocalStorage, SessionStorage, IndexedDB, PNGCache}

// DefaultKey is the record name every channel stores the identifier under.
const DefaultKey = "device_id"

// ErrUnavailable marks a channel that cannot be used at all
// (disabled, blocked, not configured).
var ErrUnavailable = errors.New("channel: unavailable")

// Channel is the uniform read/write contract of one storage mechanism.
// Implementations MUST NOT panic and MUST NOT block past ctx.
type Channel interface {
	Name() Name
	Read(ctx context.Context, key string) Result
	Write(ctx context.Context, key, value string) error
}

// Status classifies a read outcome.
type Status uint8

const (
	StatusAbsent Status = iota
	StatusFound
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "absent"
	}
}

// Result is the explicit outcome of a read. Only StatusFound carries a
// value; Err is set only for StatusUnavailable.
type Result struct {
	Status Status
	Value  string
	Err    error
}

// Found returns a present value. An empty value is reported as absent.
func Found(v string) Result {
	if v == "" {
		return Absent()
	}
	return Result{Status: StatusFound, Value: v}
}

// Absent returns a "nothing stored" result.
func Absent() Result { return Result{Status: StatusAbsent} }

// Unavailable returns a failed read. A nil err is replaced by ErrUnavailable.
func Unavailable(err error) Result {
	if err == nil {
		err = ErrUnavailable
	}
	return Result{Status: StatusUnavailable, Err: err}
}

// Present reports whether the result carries a value.
func (r Result) Present() bool { return r.Status == StatusFound && r.Value != "" }

// Clearer is implemented by channels whose stored copy can be removed,
// used to simulate a user clearing one storage mechanism.
type Clearer interface {
	Clear(ctx context.Context, key string) error
}
