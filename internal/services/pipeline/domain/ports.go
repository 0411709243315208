package domain

import (
	"context"
	"sync"

	"mbot/internal/core/replies"
)

// Source produces Frames. Next returns ok=false when nothing arrived within its own short wait;
// an error coded SourceUnavailable ends the pipeline
type Source interface {
	Name() string
	Open(ctx context.Context) error
	Next(ctx context.Context) (Frame, bool, error)
	Close() error
}

// Cooler is implemented by sources that slow down after a frame produced an accepted event
type Cooler interface {
	Matched()
}

// Responder maps an accepted Event to the text to inject
type Responder interface {
	Respond(ctx context.Context, ev Event) (Response, error)
}

// Generator is the generative fallback: arbitrary text in, arbitrary text out. May be slow
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Titler reports the title of the focused window
type Titler interface {
	ActiveTitle(ctx context.Context) (string, error)
}

// Keyboard delivers key presses and typed text to the OS input queue
type Keyboard interface {
	Press(ctx context.Context, key string) error
	Type(ctx context.Context, text string) error
}

// Signal is the read side of the shutdown signal
type Signal interface {
	Fired() bool
	Done() <-chan struct{}
}

// RunnerPort runs one pipeline until the signal fires or its source goes away
type RunnerPort interface {
	Name() string
	Run(ctx context.Context, sig Signal) error
	State() State
	// Started reports whether the source was ever opened in this process
	Started() bool
}

// Shared carries the collaborators every pipeline uses. InjectLock serializes whole
// injection sequences across pipelines
type Shared struct {
	Titler     Titler
	Keyboard   Keyboard
	Generator  Generator // nil when no generative backend is configured
	InjectLock sync.Locker
	Book       *replies.Book
}
