package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"mbot/internal/core/event"
	"mbot/internal/core/extract"
	"mbot/internal/core/replies"
	perr "mbot/internal/platform/errors"
	"mbot/internal/services/pipeline/domain"
)

// scriptSource replays frames, then reports "nothing yet" until its context ends
type scriptSource struct {
	mu       sync.Mutex
	frames   []string
	openErr  error
	endErr   error // returned once frames are exhausted, when set
	opened   int
	closed   int
	matched  int
	seq      uint64
	idleWait time.Duration
}

func (s *scriptSource) Name() string { return "script" }

func (s *scriptSource) Open(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openErr != nil {
		return s.openErr
	}
	s.opened++
	return nil
}

func (s *scriptSource) Next(ctx context.Context) (domain.Frame, bool, error) {
	s.mu.Lock()
	if len(s.frames) > 0 {
		f := s.frames[0]
		s.frames = s.frames[1:]
		s.seq++
		seq := s.seq
		s.mu.Unlock()
		return event.Frame{Text: f, At: time.Now(), Seq: seq}, true, nil
	}
	endErr := s.endErr
	s.mu.Unlock()
	if endErr != nil {
		return domain.Frame{}, false, endErr
	}
	wait := s.idleWait
	if wait == 0 {
		wait = 5 * time.Millisecond
	}
	select {
	case <-ctx.Done():
		return domain.Frame{}, false, ctx.Err()
	case <-time.After(wait):
		return domain.Frame{}, false, nil
	}
}

func (s *scriptSource) Close() error {
	s.mu.Lock()
	s.closed++
	s.mu.Unlock()
	return nil
}

func (s *scriptSource) Matched() {
	s.mu.Lock()
	s.matched++
	s.mu.Unlock()
}

func (s *scriptSource) drained() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames) == 0
}

// titles answers ActiveTitle from a fixed title or error
type titles struct {
	title string
	errs  int // number of leading calls that fail
	calls int
}

func (t *titles) ActiveTitle(context.Context) (string, error) {
	t.calls++
	if t.calls <= t.errs {
		return "", errors.New("no active window")
	}
	return t.title, nil
}

// keys records the keyboard actions as strings: "press:t", "type:hello"
type keys struct {
	mu      sync.Mutex
	actions []string
	failOn  string
	delay   time.Duration
}

func (k *keys) record(a string) error {
	if k.delay > 0 {
		time.Sleep(k.delay)
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.actions = append(k.actions, a)
	if k.failOn != "" && a == k.failOn {
		return perr.Newf(perr.ErrorCodeInjectionFailed, "xdotool failed on %s", a)
	}
	return nil
}

func (k *keys) Press(_ context.Context, key string) error { return k.record("press:" + key) }
func (k *keys) Type(_ context.Context, text string) error { return k.record("type:" + text) }

func (k *keys) got() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]string(nil), k.actions...)
}

type generator struct {
	reply   string
	err     error
	prompts []string
}

func (g *generator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

// fakeClock drives the gate without real waiting
type fakeClock struct {
	now   time.Time
	waits []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration, done ...<-chan struct{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.waits = append(c.waits, d)
	c.now = c.now.Add(d)
	return nil
}

type rig struct {
	svc    *Svc
	src    *scriptSource
	titles *titles
	keys   *keys
	clock  *fakeClock
	inject []time.Duration
}

type rigOpt struct {
	kind            domain.Kind
	title           string
	gen             domain.Generator
	table           []string // alternating keyword, reply; nil uses the embedded book
	dedupeResponses bool
	sanitize        bool
	lock            sync.Locker
}

func newRig(t *testing.T, src *scriptSource, o rigOpt) *rig {
	t.Helper()
	book := replies.Default()
	if o.table != nil {
		doc := "keywords:\n"
		for i := 0; i+1 < len(o.table); i += 2 {
			doc += fmt.Sprintf("  - keyword: %q\n    reply: %q\n", o.table[i], o.table[i+1])
		}
		b, err := replies.Parse([]byte(doc))
		if err != nil {
			t.Fatalf("parse table: %v", err)
		}
		book = b
	}
	if o.title == "" {
		o.title = "Minecraft 1.8.9"
	}
	r := &rig{
		src:    src,
		titles: &titles{title: o.title},
		keys:   &keys{},
		clock:  &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	var x extract.Extractor
	var resp domain.Responder
	switch o.kind {
	case domain.KindWelcome:
		x = extract.JoinAnnouncement{Pattern: regexp.MustCompile(`\[CHAT\] \+ NEW (\w+)`)}
		tmpl, _ := replies.Default().Greeting("welcome")
		resp = GreetingResponder{Template: tmpl}
	default:
		x = extract.WakeWord{Marker: "mbot"}
		resp = KeywordResponder{Table: book.Keywords, Generator: o.gen}
	}

	gate := NewGate(r.titles, GateConfig{Targets: []string{"minecraft", "lunar"}, Poll: time.Second, Timeout: 60 * time.Second})
	gate.now, gate.sleep = r.clock.Now, r.clock.Sleep

	inj := NewInjector(r.keys, InjectConfig{Settle: 500 * time.Millisecond, Sanitize: o.sanitize})
	inj.sleep = func(ctx context.Context, d time.Duration, _ ...<-chan struct{}) error {
		r.inject = append(r.inject, d)
		return ctx.Err()
	}

	r.svc = New(Config{
		Name:            string(o.kind),
		Source:          src,
		Extractor:       x,
		Responder:       resp,
		Gate:            gate,
		Injector:        inj,
		InjectLock:      o.lock,
		DedupeResponses: o.dedupeResponses,
	})
	return r
}

func frame(text string) domain.Frame { return event.Frame{Text: text, At: time.Now()} }
