// Package event holds the values that travel through a pipeline: sensed frames and the
// events extracted from them
package event

import (
	"time"

	"mbot/internal/core/normalize"

	"github.com/google/uuid"
)

// Frame is one unit of sensed text: a log line or an OCR transcript
type Frame struct {
	Text string
	At   time.Time
	Seq  uint64 // per-source, starts at 1
}

// Kind classifies an Event
type Kind string

const (
	// KindQuestion is a wake-word question addressed to the bot
	KindQuestion Kind = "question_asked"
	// KindJoin is a player join announcement
	KindJoin Kind = "player_joined"
)

// Event is a structured extraction from a Frame
type Event struct {
	ID       uuid.UUID
	Kind     Kind
	Payload  string
	DedupKey string
	At       time.Time
}

// New builds an Event for payload, deriving its dedup key and a fresh id
func New(kind Kind, payload string, at time.Time) Event {
	return Event{
		ID:       uuid.New(),
		Kind:     kind,
		Payload:  payload,
		DedupKey: normalize.Key(payload),
		At:       at,
	}
}
