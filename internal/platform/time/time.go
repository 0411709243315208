// Package time contains time related helpers
package time

import (
	"context"
	"time"
)

// Sleep waits for d, returning early with ctx.Err() when ctx ends.
// Any extra done channels (typically a shutdown signal) also cut the wait short, returning nil
func Sleep(ctx context.Context, d time.Duration, done ...<-chan struct{}) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	var stop <-chan struct{}
	if len(done) > 0 {
		stop = done[0] // nil channel blocks forever, which is what we want when absent
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-stop:
		return nil
	case <-t.C:
		return nil
	}
}

// Sleeper is the signature of Sleep, kept as a type so components can take it as a seam
type Sleeper func(ctx context.Context, d time.Duration, done ...<-chan struct{}) error
