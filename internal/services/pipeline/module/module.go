// Package module wires one pipeline from configuration and exposes its runner port
package module

import (
	"regexp"
	"strings"
	"sync"

	"mbot/internal/adapters/source/capture"
	"mbot/internal/adapters/source/tail"
	"mbot/internal/core/extract"
	"mbot/internal/core/replies"
	"mbot/internal/modkit"
	perr "mbot/internal/platform/errors"
	pstrings "mbot/internal/platform/strings"
	"mbot/internal/platform/validate"
	"mbot/internal/services/pipeline/domain"
	"mbot/internal/services/pipeline/service"
)

// Module defines a pipeline module
type Module struct {
	name  string
	kind  domain.Kind
	ports Ports
}

// New builds the pipeline of the given kind. Shared collaborators (desktop, generator,
// injection lock, reply book) arrive through modkit.WithPorts(domain.Shared{...})
func New(deps modkit.Deps, kind domain.Kind, overrides Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(opts...)
	shared, ok := modkit.PortsAs[domain.Shared](b)
	if !ok || shared.Titler == nil || shared.Keyboard == nil {
		return nil, perr.InvalidArgf("pipeline %s: desktop ports are required", kind)
	}
	if shared.Book == nil {
		shared.Book = replies.Default()
	}
	if shared.InjectLock == nil {
		shared.InjectLock = &sync.Mutex{}
	}
	name := pstrings.FirstNonEmpty(b.Name, string(kind))

	o := FromConfig(deps.Cfg).merge(overrides)
	if err := validate.Struct(o.Focus); err != nil {
		return nil, err
	}
	if err := validate.Struct(o.Inject); err != nil {
		return nil, err
	}

	var (
		src  domain.Source
		x    extract.Extractor
		resp domain.Responder
		err  error
	)
	switch kind {
	case domain.KindQuestion:
		if err = validate.Struct(o.Tail); err == nil {
			err = validate.Struct(o.Question)
		}
		src = tail.New(tail.Options{Path: o.Tail.Path, PollInterval: o.Tail.Poll})
		x = extract.WakeWord{Marker: o.Question.WakeWord}
		resp = service.KeywordResponder{Table: shared.Book.Keywords, Generator: shared.Generator}

	case domain.KindWelcome:
		if err = validate.Struct(o.Tail); err == nil {
			err = validate.Struct(o.Welcome)
		}
		src = tail.New(tail.Options{Path: o.Tail.Path, PollInterval: o.Tail.Poll})
		x, resp, err = joinStage(err, name, o.Welcome.Pattern, "WELCOME_PATTERN", shared.Book)

	case domain.KindOCRWelcome:
		err = validate.Struct(o.Capture)
		c := o.Capture
		src = capture.New(capture.Options{
			Region:    capture.Rect(c.Region),
			Path:      c.Path,
			Interval:  c.Interval,
			Cooldown:  c.Cooldown,
			Threshold: uint8(c.Threshold),
			Beep:      c.Beep,
		}, capture.Import{Cmd: c.CaptureCmd}, capture.Tesseract{Cmd: c.TesseractCmd})
		x, resp, err = joinStage(err, name, c.Pattern, "OCR_PATTERN", shared.Book)

	default:
		return nil, perr.WithField(perr.InvalidArgf("unknown pipeline %q, want one of %v", kind, domain.Kinds()), "PIPELINES")
	}
	if err != nil {
		return nil, perr.WithOp(err, "pipeline."+string(kind))
	}

	svc := service.New(service.Config{
		Name:      name,
		Source:    src,
		Extractor: x,
		Responder: resp,
		Gate: service.NewGate(shared.Titler, service.GateConfig{
			Targets: o.Focus.Targets,
			Poll:    o.Focus.Poll,
			Timeout: o.Focus.Timeout,
		}),
		Injector: service.NewInjector(shared.Keyboard, service.InjectConfig{
			OpenKey:   o.Inject.OpenKey,
			SubmitKey: o.Inject.SubmitKey,
			Settle:    o.Inject.Settle,
			Sanitize:  o.Inject.Sanitize,
		}),
		InjectLock:      shared.InjectLock,
		DedupeResponses: kind == domain.KindQuestion && o.Question.DedupeResponses,
	})

	deps.Log.Debug().Str("pipeline", name).Str("source", src.Name()).Int("keywords", shared.Book.Keywords.Len()).Msg("pipeline wired")
	return &Module{name: name, kind: kind, ports: Ports{Runner: svc}}, nil
}

// ParseEntry splits a PIPELINES entry. "lobby:welcome" names a welcome pipeline "lobby"
// (its greeting is looked up under that name); a bare kind names the pipeline after itself
func ParseEntry(entry string) (name string, kind domain.Kind) {
	name, k, found := strings.Cut(strings.TrimSpace(entry), ":")
	if !found {
		return name, domain.Kind(name)
	}
	return strings.TrimSpace(name), domain.Kind(strings.TrimSpace(k))
}

// joinStage compiles the join pattern and picks the greeting for the pipeline
func joinStage(prev error, name, pattern, field string, book *replies.Book) (extract.Extractor, domain.Responder, error) {
	if prev != nil {
		return nil, nil, prev
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeInvalidArgument, "invalid join pattern"), field)
	}
	if re.NumSubexp() < 1 {
		return nil, nil, perr.WithField(perr.InvalidArgf("join pattern %q needs a capture group for the username", pattern), field)
	}
	tmpl, ok := book.Greeting(name)
	if !ok {
		return nil, nil, perr.WithField(perr.InvalidArgf("no greeting configured for pipeline %q", name), "greetings")
	}
	return extract.JoinAnnouncement{Pattern: re}, service.GreetingResponder{Template: tmpl}, nil
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Kind returns the pipeline kind
func (m *Module) Kind() domain.Kind { return m.kind }

// Ports returns the module ports (Runner)
func (m *Module) Ports() any { return m.ports }
