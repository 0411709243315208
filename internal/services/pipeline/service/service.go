// Package service runs one pipeline: sense, extract, dedupe, respond, gate on focus, inject
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"mbot/internal/core/dedupe"
	"mbot/internal/core/extract"
	"mbot/internal/core/normalize"
	perr "mbot/internal/platform/errors"
	"mbot/internal/platform/logger"
	pstrings "mbot/internal/platform/strings"
	ptime "mbot/internal/platform/time"
	"mbot/internal/services/pipeline/domain"

	"github.com/google/uuid"
)

// Config wires the collaborators of one pipeline
type Config struct {
	Name      string
	Source    domain.Source
	Extractor extract.Extractor
	Responder domain.Responder
	Gate      *Gate
	Injector  *Injector

	// InjectLock serializes injection across pipelines; nil means a private lock
	InjectLock sync.Locker
	// DedupeResponses also suppresses a response whose text equals the last injected one
	DedupeResponses bool
	// ErrorBackoff is the pause after a transient source error, default 100ms
	ErrorBackoff time.Duration
}

// Svc implements domain.RunnerPort
type Svc struct {
	cfg   Config
	state atomic.Int32
	ran   atomic.Bool

	// per-session state, owned by the Run goroutine
	events    *dedupe.Deduplicator
	responses *dedupe.Deduplicator
}

var _ domain.RunnerPort = (*Svc)(nil)

// New constructs a pipeline service
func New(cfg Config) *Svc {
	if cfg.Source == nil || cfg.Extractor == nil || cfg.Responder == nil || cfg.Gate == nil || cfg.Injector == nil {
		panic("pipeline.Service requires a source, extractor, responder, gate and injector")
	}
	if cfg.InjectLock == nil {
		cfg.InjectLock = &sync.Mutex{}
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = 100 * time.Millisecond
	}
	s := &Svc{cfg: cfg, events: dedupe.New()}
	if cfg.DedupeResponses {
		s.responses = dedupe.New()
	}
	return s
}

// Name returns the pipeline name
func (s *Svc) Name() string { return s.cfg.Name }

// State returns the lifecycle state
func (s *Svc) State() domain.State { return domain.State(s.state.Load()) }

// Started reports whether the source was ever opened
func (s *Svc) Started() bool { return s.ran.Load() }

func (s *Svc) setState(st domain.State) { s.state.Store(int32(st)) }

// Run opens the source and processes frames until sig fires, ctx ends, or the source
// becomes unavailable. The iteration in progress when sig fires is allowed to finish
func (s *Svc) Run(ctx context.Context, sig domain.Signal) error {
	ctx = logger.WithPipeline(ctx, s.cfg.Name, uuid.NewString())
	log := logger.C(ctx)

	s.setState(domain.StateIdle)
	if err := s.cfg.Source.Open(ctx); err != nil {
		s.setState(domain.StateStopped)
		log.Error().Err(err).Str("source", s.cfg.Source.Name()).Msg("source unavailable; pipeline not started")
		return perr.WithOp(err, "pipeline.Open")
	}
	defer func() {
		if err := s.cfg.Source.Close(); err != nil {
			log.Warn().Err(err).Msg("close source")
		}
		s.setState(domain.StateStopped)
		log.Info().Msg("pipeline stopped")
	}()

	s.events.Reset()
	if s.responses != nil {
		s.responses.Reset()
	}
	s.ran.Store(true)
	s.setState(domain.StateRunning)
	log.Info().Str("source", s.cfg.Source.Name()).Msg("pipeline running")

	// sensing waits end as soon as the signal fires; responding and injecting use ctx
	senseCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-sig.Done():
			cancel()
		case <-senseCtx.Done():
		}
	}()

	for {
		if sig.Fired() || ctx.Err() != nil {
			break
		}
		f, ok, err := s.cfg.Source.Next(senseCtx)
		if err != nil {
			if senseCtx.Err() != nil {
				break
			}
			if perr.IsCode(err, perr.ErrorCodeSourceUnavailable) {
				log.Error().Err(err).Msg("source lost")
				return err
			}
			log.Warn().Err(err).Msg("source read failed")
			_ = ptime.Sleep(senseCtx, s.cfg.ErrorBackoff)
			continue
		}
		if !ok {
			continue
		}
		s.Handle(ctx, sig, f)
	}

	s.setState(domain.StateStopping)
	log.Info().Msg("shutdown observed; stopping")
	return nil
}

// Handle runs one frame through extract, dedupe, respond, gate and inject
func (s *Svc) Handle(ctx context.Context, sig domain.Signal, f domain.Frame) domain.Outcome {
	log := logger.C(ctx)

	ev, ok := s.cfg.Extractor.Extract(f)
	if !ok {
		return domain.OutcomeNoMatch
	}
	if !s.events.Accept(ev.DedupKey) {
		log.Debug().Str("key", ev.DedupKey).Msg("duplicate suppressed")
		return domain.OutcomeDuplicateSuppressed
	}
	if c, ok := s.cfg.Source.(domain.Cooler); ok {
		c.Matched()
	}

	ctx = logger.WithEvent(ctx, ev.ID.String())
	log = logger.C(ctx)
	log.Info().Str("kind", string(ev.Kind)).Str("payload", pstrings.Truncate(ev.Payload, 120)).Msg("event detected")

	resp, err := s.cfg.Responder.Respond(ctx, ev)
	if err != nil {
		log.Warn().Err(err).Msg("no response for event")
		return domain.OutcomeGenerativeFailure
	}
	if s.responses != nil && !s.responses.Accept(normalize.Key(resp.Text)) {
		log.Debug().Msg("same response as last time; suppressed")
		return domain.OutcomeDuplicateSuppressed
	}
	log.Info().Str("origin", string(resp.Origin)).Str("keyword", resp.Keyword).Str("response", pstrings.Truncate(resp.Text, 120)).Msg("response ready")

	if err := s.cfg.Gate.Wait(ctx, sig.Done()); err != nil {
		if perr.IsCode(err, perr.ErrorCodeFocusTimeout) {
			log.Error().Err(err).Msg("target not active; cannot send the message")
			return domain.OutcomeFocusTimeout
		}
		log.Info().Err(err).Msg("focus wait aborted")
		return domain.OutcomeAborted
	}

	s.cfg.InjectLock.Lock()
	err = s.cfg.Injector.Inject(ctx, resp.Text)
	s.cfg.InjectLock.Unlock()
	if err != nil {
		log.Error().Err(err).Msg("injection failed")
		return domain.OutcomeInjectionFailed
	}
	log.Info().Msg("response sent")
	return domain.OutcomeInjected
}
