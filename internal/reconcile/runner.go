// internal/reconcile/runner.go
package reconcile

import (
	"context"
	"time"
)

// Run performs a pass immediately and then once per interval, emitting
// every Outcome on out. It stops after passes outcomes (0 = until ctx
// is done). One goroutine per client. No overlap. No retries.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration, passes int, out chan<- Outcome) {
	if interval <= 0 {
		interval = time.Second
	}

	emitted := 0
	emit := func() bool {
		o := r.Reconcile(ctx)
		// A pass cut short by cancellation saw nothing; drop it.
		if ctx.Err() != nil {
			return false
		}
		select {
		case out <- o:
		case <-ctx.Done():
			return false
		}
		emitted++
		return passes <= 0 || emitted < passes
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}
