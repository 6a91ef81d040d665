// internal/logsink/entry.go
package logsink

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Spaceonmymind/even-cookie-fp/internal/channel"
	"github.com/Spaceonmymind/even-cookie-fp/internal/reconcile"
)

// Entry is one record of a reconciliation pass, as reported by the
// frame that ran it. Channels and Timestamp are kept as the client
// sent them: any channel key, any JSON value, any timestamp shape.
type Entry struct {
	UID       string                     `json:"uid"`
	Mode      string                     `json:"mode"`
	Channels  map[string]json.RawMessage `json:"channels,omitempty"`
	UserAgent string                     `json:"userAgent"`
	Timestamp json.RawMessage            `json:"timestamp,omitempty"`
}

// NewEntry builds the entry a frame posts after a pass.
func NewEntry(uid, mode string, snap reconcile.Snapshot, userAgent string, at time.Time) Entry {
	chans := make(map[string]json.RawMessage, len(channel.Order))
	for _, name := range channel.Order {
		raw := json.RawMessage("null")
		if v, ok := snap.Get(name); ok {
			raw, _ = json.Marshal(v)
		}
		chans[string(name)] = raw
	}
	return Entry{
		UID:       uid,
		Mode:      mode,
		Channels:  chans,
		UserAgent: userAgent,
		Timestamp: stamp(at),
	}
}

// Channel returns the string value reported for one channel.
func (e Entry) Channel(name string) (string, bool) {
	raw, ok := e.Channels[name]
	if !ok {
		return "", false
	}
	var v *string
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return "", false
	}
	return *v, true
}

var stampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Time interprets Timestamp. Strings are read as RFC 3339 with or
// without a zone (zoneless means UTC); numbers as Unix milliseconds.
func (e Entry) Time() (time.Time, bool) {
	raw := bytes.TrimSpace(e.Timestamp)
	if len(raw) == 0 {
		return time.Time{}, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, false
		}
		for _, layout := range stampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	ms, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}

// TimeText renders Timestamp for people: RFC 3339 when it parses,
// the raw client value otherwise.
func (e Entry) TimeText() string {
	if t, ok := e.Time(); ok {
		return t.UTC().Format(time.RFC3339Nano)
	}
	var s string
	if err := json.Unmarshal(e.Timestamp, &s); err == nil {
		return s
	}
	return string(e.Timestamp)
}

func (e Entry) hasTimestamp() bool {
	raw := bytes.TrimSpace(e.Timestamp)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null")) && !bytes.Equal(raw, []byte(`""`))
}

func stamp(t time.Time) json.RawMessage {
	raw, _ := json.Marshal(t.UTC().Format(time.RFC3339Nano))
	return raw
}
