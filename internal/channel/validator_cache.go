// internal/channel/validator_cache.go
package channel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/Spaceonmymind/even-cookie-fp/internal/atomicfile"
)

// CacheEntry is what the client-side HTTP cache remembers about the
// image resource.
type CacheEntry struct {
	ETag string `cbor:"etag"`
	Body []byte `cbor:"body,omitempty"`
}

// ValidatorCache stands in for the browser HTTP cache. It is cleared
// independently of the script-accessible storage channels.
type ValidatorCache interface {
	Load(ctx context.Context) (CacheEntry, bool, error)
	Store(ctx context.Context, e CacheEntry) error
	Clear(ctx context.Context) error
}

// ---- memory ----

type MemoryValidatorCache struct {
	mu    sync.Mutex
	entry *CacheEntry
}

func NewMemoryValidatorCache() *MemoryValidatorCache {
	return &MemoryValidatorCache{}
}

func (m *MemoryValidatorCache) Load(ctx context.Context) (CacheEntry, bool, error) {
	if err := ctx.Err(); err != nil {
		return CacheEntry{}, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entry == nil {
		return CacheEntry{}, false, nil
	}
	return *m.entry, true, nil
}

func (m *MemoryValidatorCache) Store(ctx context.Context, e CacheEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.entry = &e
	m.mu.Unlock()
	return nil
}

func (m *MemoryValidatorCache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.entry = nil
	m.mu.Unlock()
	return nil
}

// ---- file ----

// FileValidatorCache persists the entry as CBOR at path.
type FileValidatorCache struct {
	path string
	mu   sync.Mutex
}

func NewFileValidatorCache(path string) (*FileValidatorCache, error) {
	if path == "" {
		return nil, errors.New("channel: validator cache path required")
	}
	return &FileValidatorCache{path: path}, nil
}

// Load treats an undecodable file as an empty cache.
func (f *FileValidatorCache) Load(ctx context.Context) (CacheEntry, bool, error) {
	if err := ctx.Err(); err != nil {
		return CacheEntry{}, false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return CacheEntry{}, false, nil
		}
		return CacheEntry{}, false, fmt.Errorf("channel: validator cache read: %w", err)
	}
	var e CacheEntry
	if err := cbor.Unmarshal(raw, &e); err != nil || e.ETag == "" {
		return CacheEntry{}, false, nil
	}
	return e, true, nil
}

func (f *FileValidatorCache) Store(ctx context.Context, e CacheEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encMode.Marshal(e)
	if err != nil {
		return fmt.Errorf("channel: validator cache encode: %w", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := atomicfile.Write(f.path, data); err != nil {
		return fmt.Errorf("channel: validator cache write: %w", err)
	}
	return nil
}

func (f *FileValidatorCache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("channel: validator cache clear: %w", err)
	}
	return nil
}
