// Package service runs pipelines side by side and owns the shutdown signal
package service

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"mbot/internal/core/shutdown"
	perr "mbot/internal/platform/errors"
	"mbot/internal/platform/logger"
	pdomain "mbot/internal/services/pipeline/domain"

	"golang.org/x/sync/errgroup"
)

// QuitWord stops the process when typed on stdin
const QuitWord = "quit"

// Config holds supervisor settings
type Config struct {
	// Stdin is read line by line for the quit word; nil disables the listener
	Stdin io.Reader
}

// Svc is the supervisor
type Svc struct {
	cfg     Config
	runners []pdomain.RunnerPort
	sig     *shutdown.Signal
	log     *logger.Logger
}

// New builds a supervisor over the given pipelines
func New(cfg Config, runners ...pdomain.RunnerPort) *Svc {
	return &Svc{
		cfg:     cfg,
		runners: runners,
		sig:     shutdown.New(),
		log:     logger.Named("supervisor"),
	}
}

// Stop fires the shutdown signal
func (s *Svc) Stop() bool { return s.sig.Fire() }

// States reports each pipeline state by name
func (s *Svc) States() map[string]pdomain.State {
	out := make(map[string]pdomain.State, len(s.runners))
	for _, r := range s.runners {
		out[r.Name()] = r.State()
	}
	return out
}

// Run starts every pipeline and waits for all of them to stop. Cancelling ctx fires the
// shutdown signal, so pipelines finish their current iteration instead of being cut off
func (s *Svc) Run(ctx context.Context) error {
	if len(s.runners) == 0 {
		return perr.WithField(perr.InvalidArgf("no pipelines configured"), "PIPELINES")
	}

	if s.cfg.Stdin != nil {
		// not awaited: a blocked stdin read cannot be interrupted
		go s.listen(s.cfg.Stdin)
	}

	finished := make(chan struct{})
	var watch sync.WaitGroup
	watch.Add(1)
	go func() {
		defer watch.Done()
		select {
		case <-ctx.Done():
			if s.sig.Fire() {
				s.log.Info().Msg("context done, stopping pipelines")
			}
		case <-finished:
		}
	}()

	// pipelines run with a context that outlives the shutdown signal so in-flight
	// generation and injection can complete
	runCtx := context.WithoutCancel(ctx)

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, r := range s.runners {
		g.Go(func() error {
			s.log.Info().Str("pipeline", r.Name()).Msg("pipeline starting")
			if err := r.Run(runCtx, s.sig); err != nil {
				s.log.Error().Err(err).Str("pipeline", r.Name()).Msg("pipeline ended with error")
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			s.log.Info().Str("pipeline", r.Name()).Msg("pipeline stopped")
			return nil
		})
	}
	_ = g.Wait()
	close(finished)
	watch.Wait()

	for _, r := range s.runners {
		if r.Started() {
			return nil
		}
	}
	return perr.Wrap(errors.Join(errs...), perr.ErrorCodeSourceUnavailable, "no pipeline could start")
}

// listen fires the signal when the quit word arrives; EOF ends it quietly
func (s *Svc) listen(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if strings.EqualFold(strings.TrimSpace(sc.Text()), QuitWord) {
			if s.sig.Fire() {
				s.log.Info().Msg("quit received, stopping pipelines")
			}
			return
		}
	}
	if err := sc.Err(); err != nil {
		s.log.Warn().Err(err).Msg("stdin listener stopped")
	}
}
