// internal/channel/session.go
package channel

import (
	"context"
	"sync"
)

// SessionChannel is a key-value store whose lifetime is the browsing
// session: the process, or until EndSession.
type SessionChannel struct {
	mu      sync.Mutex
	records map[string]string
}

func NewSession() *SessionChannel {
	return &SessionChannel{records: make(map[string]string)}
}

func (s *SessionChannel) Name() Name { return SessionStorage }

func (s *SessionChannel) Read(ctx context.Context, key string) Result {
	if err := ctx.Err(); err != nil {
		return Unavailable(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Found(s.records[key])
}

func (s *SessionChannel) Write(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.records[key] = value
	s.mu.Unlock()
	return nil
}

func (s *SessionChannel) Clear(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return nil
}

// EndSession drops every record, as closing the browser would.
func (s *SessionChannel) EndSession() {
	s.mu.Lock()
	s.records = make(map[string]string)
	s.mu.Unlock()
}
