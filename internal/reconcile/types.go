// internal/reconcile/types.go
package reconcile

import (
	"time"

	"github.com/Spaceonmymind/even-cookie-fp/internal/channel"
)

// Source records where the canonical identifier came from: a channel
// name, or SourceGenerated when no channel held a value.
type Source string

const SourceGenerated Source = "generated"

// Outcome is the result of one reconciliation pass.
type Outcome struct {
	ID     string
	Source Source
	At     time.Time

	// Snapshot is the pre-write state of every channel.
	Snapshot Snapshot

	// Reads keeps the raw per-channel read outcome, including the
	// reason a channel was unavailable.
	Reads map[channel.Name]channel.Result

	// WriteErr is non-nil when at least one write-back failed.
	// It never means the pass failed: ID is always usable.
	WriteErr error
}
