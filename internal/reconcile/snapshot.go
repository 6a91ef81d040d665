// internal/reconcile/snapshot.go
package reconcile

import "github.com/Spaceonmymind/even-cookie-fp/internal/channel"

// Snapshot is what every channel held before a reconciliation pass
// wrote anything. A nil field means the channel had no value.
// It contains no logic and is never updated after capture.
type Snapshot struct {
	Cookie         *string `json:"cookie"`
	LocalStorage   *string `json:"localStorage"`
	SessionStorage *string `json:"sessionStorage"`
	IndexedDB      *string `json:"indexedDB"`
	PNGCache       *string `json:"pngCache"`
}

// Get returns the captured value of one channel.
func (s Snapshot) Get(name channel.Name) (string, bool) {
	p := s.field(name)
	if p == nil || *p == nil {
		return "", false
	}
	return **p, true
}

// With returns a copy of s with name set to v. An empty v clears it.
func (s Snapshot) With(name channel.Name, v string) Snapshot {
	p := s.field(name)
	if p == nil {
		return s
	}
	if v == "" {
		*p = nil
		return s
	}
	*p = &v
	return s
}

// Values returns the present values in precedence order.
func (s Snapshot) Values() []string {
	var out []string
	for _, name := range channel.Order {
		if v, ok := s.Get(name); ok {
			out = append(out, v)
		}
	}
	return out
}

func (s *Snapshot) field(name channel.Name) **string {
	switch name {
	case channel.Cookie:
		return &s.Cookie
	case channel.LocalStorage:
		return &s.LocalStorage
	case channel.SessionStorage:
		return &s.SessionStorage
	case channel.IndexedDB:
		return &s.IndexedDB
	case channel.PNGCache:
		return &s.PNGCache
	default:
		return nil
	}
}
