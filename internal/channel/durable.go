// internal/channel/durable.go
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

// DurableChannel is a persistent per-origin key-value store (the
// localStorage analogue). Records live in one CBOR-encoded file.
type DurableChannel struct {
	path string
	mu   sync.Mutex
}

// NewDurable returns a store persisted at path. The file is created on
// first write.
func NewDurable(path string) (*DurableChannel, error) {
	if path == "" {
		return nil, errors.New("channel: durable store path required")
	}
	return &DurableChannel{path: path}, nil
}

func (d *DurableChannel) Name() Name { return LocalStorage }

// Read returns Absent for a missing or corrupt file.
func (d *DurableChannel) Read(ctx context.Context, key string) Result {
	if err := ctx.Err(); err != nil {
		return Unavailable(err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	records, err := d.load()
	if err != nil {
		return Unavailable(err)
	}
	return Found(records[key])
}

func (d *DurableChannel) Write(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	records, err := d.load()
	if err != nil {
		return err
	}
	records[key] = value
	return d.save(records)
}

func (d *DurableChannel) Clear(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	records, err := d.load()
	if err != nil {
		return err
	}
	if _, ok := records[key]; !ok {
		return nil
	}
	delete(records, key)
	return d.save(records)
}

// load reads the record file. Missing or undecodable content yields an
// empty map; only IO failures other than not-exist are errors.
func (d *DurableChannel) load() (map[string]string, error) {
	records := make(map[string]string)

	raw, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return records, nil
		}
		return nil, fmt.Errorf("channel: durable read: %w", err)
	}
	if len(raw) == 0 {
		return records, nil
	}
	if err := cbor.Unmarshal(raw, &records); err != nil {
		return make(map[string]string), nil
	}
	if records == nil {
		records = make(map[string]string)
	}
	return records, nil
}

func (d *DurableChannel) save(records map[string]string) error {
	data, err := encMode.Marshal(records)
	if err != nil {
		return fmt.Errorf("channel: durable encode: %w", err)
	}
	if err := atomicfile.Write(d.path, data); err != nil {
		return fmt.Errorf("channel: durable write: %w", err)
	}
	return nil
}
