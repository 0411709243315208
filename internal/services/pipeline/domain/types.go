// Package domain defines the types and ports of a sense, extract, dedupe, respond,
// gate and inject pipeline
package domain

import (
	"mbot/internal/core/event"
)

// Frame is one sensed unit of text
type Frame = event.Frame

// Event is a structured extraction from a Frame
type Event = event.Event

// Origin tells where a Response text came from
type Origin string

const (
	// OriginKeyword is a canned answer from the keyword table
	OriginKeyword Origin = "keyword"
	// OriginGenerative is a reply from the generative fallback
	OriginGenerative Origin = "generative"
	// OriginGreeting is a rendered join greeting
	OriginGreeting Origin = "greeting"
)

// Response is the text to inject for an Event
type Response struct {
	Text    string
	Event   Event
	Origin  Origin
	Keyword string // set for OriginKeyword
}

// Outcome is what happened to one Frame
type Outcome string

const (
	OutcomeInjected            Outcome = "injected"
	OutcomeNoMatch             Outcome = "no_match"
	OutcomeDuplicateSuppressed Outcome = "duplicate_suppressed"
	OutcomeGenerativeFailure   Outcome = "generative_failure"
	OutcomeFocusTimeout        Outcome = "focus_timeout"
	OutcomeInjectionFailed     Outcome = "injection_failed"
	OutcomeAborted             Outcome = "aborted" // shutdown or cancellation while waiting for focus
)

// State is the lifecycle of one pipeline
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Kind names the concrete pipelines
type Kind string

const (
	KindQuestion   Kind = "question"
	KindWelcome    Kind = "welcome"
	KindOCRWelcome Kind = "ocr-welcome"
)

// Kinds lists the pipelines that can be configured, in their default order
func Kinds() []Kind { return []Kind{KindQuestion, KindWelcome, KindOCRWelcome} }
