// Package shutdown provides the write-once stop signal shared by every pipeline
package shutdown

import (
	"sync"
	"sync/atomic"
)

// Signal goes false -> true at most once and is never reset. The zero value is not usable; call New
type Signal struct {
	once  sync.Once
	fired atomic.Bool
	done  chan struct{}
}

// New returns an unfired Signal
func New() *Signal { return &Signal{done: make(chan struct{})} }

// Fire sets the signal. It reports true only for the call that actually flipped it
func (s *Signal) Fire() bool {
	flipped := false
	s.once.Do(func() {
		s.fired.Store(true)
		close(s.done)
		flipped = true
	})
	return flipped
}

// Fired reports whether the signal has been set
func (s *Signal) Fired() bool { return s.fired.Load() }

// Done is closed once the signal fires
func (s *Signal) Done() <-chan struct{} { return s.done }
