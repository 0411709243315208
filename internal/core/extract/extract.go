// Package extract turns sensed frames into events. Extractors are stateless and safe
// for concurrent use
package extract

import (
	"regexp"
	"strings"

	"mbot/internal/core/event"
)

// Extractor derives at most one Event from a Frame. No match is not an error
type Extractor interface {
	Extract(f event.Frame) (event.Event, bool)
}

// WakeWord matches a case-sensitive marker; the payload is the trimmed text after its
// first occurrence. A marker with nothing after it yields no Event
type WakeWord struct {
	Marker string
}

// Extract implements Extractor
func (w WakeWord) Extract(f event.Frame) (event.Event, bool) {
	if w.Marker == "" {
		return event.Event{}, false
	}
	_, after, found := strings.Cut(f.Text, w.Marker)
	if !found {
		return event.Event{}, false
	}
	payload := strings.TrimSpace(after)
	if payload == "" {
		return event.Event{}, false
	}
	return event.New(event.KindQuestion, payload, f.At), true
}

// JoinAnnouncement matches Pattern line by line; the payload is capture group 1 of the
// first line that matches. The username must sit on the same line as the announcement
type JoinAnnouncement struct {
	Pattern *regexp.Regexp
}

// Extract implements Extractor
func (j JoinAnnouncement) Extract(f event.Frame) (event.Event, bool) {
	if j.Pattern == nil {
		return event.Event{}, false
	}
	for _, line := range strings.Split(f.Text, "\n") {
		m := j.Pattern.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if len(m) < 2 {
			continue
		}
		if user := strings.TrimSpace(m[1]); user != "" {
			return event.New(event.KindJoin, user, f.At), true
		}
	}
	return event.Event{}, false
}
