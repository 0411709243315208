package main

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	kit "mbot/internal/platform/testkit"

	"github.com/stretchr/testify/require"
)

func TestInterruptContext_ReleasesSignalsAfterFirst(t *testing.T) {
	var (
		signal context.CancelFunc
		stops  atomic.Int32
	)
	kit.Swap(t, &notifyContext, func(parent context.Context, _ ...os.Signal) (context.Context, context.CancelFunc) {
		ctx, cancel := context.WithCancel(parent)
		signal = cancel
		return ctx, func() {
			stops.Add(1)
			cancel()
		}
	})

	ctx, stop := interruptContext(context.Background())
	defer stop()
	require.Zero(t, stops.Load(), "signals stay captured until the first one arrives")

	signal()
	<-ctx.Done()
	kit.Eventually(t, time.Second, func() bool { return stops.Load() >= 1 }, "signal capture released")
}
