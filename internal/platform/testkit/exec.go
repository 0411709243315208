package testkit

import (
	"context"
	"sync"
)

// Recorder stands in for a command runner: it records every call and answers from Reply.
// Pass rec.Run wherever a runner func is expected
type Recorder struct {
	mu    sync.Mutex
	Calls [][]string
	Reply func(name string, args []string) ([]byte, error)
}

// Run records name and args, then answers from Reply (nil output when Reply is unset)
func (r *Recorder) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.mu.Lock()
	r.Calls = append(r.Calls, append([]string{name}, args...))
	r.mu.Unlock()
	if r.Reply == nil {
		return nil, nil
	}
	return r.Reply(name, args)
}
