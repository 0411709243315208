package service

import (
	"context"
	"strings"
	"time"

	perr "mbot/internal/platform/errors"
	"mbot/internal/platform/logger"
	pstrings "mbot/internal/platform/strings"
	ptime "mbot/internal/platform/time"
	"mbot/internal/services/pipeline/domain"
)

// GateConfig configures the focus gate
type GateConfig struct {
	Targets []string // case-insensitive title fragments
	Poll    time.Duration
	Timeout time.Duration
}

// Gate waits until the focused window belongs to one of the target applications
type Gate struct {
	titler  domain.Titler
	targets []string
	poll    time.Duration
	timeout time.Duration

	sleep ptime.Sleeper
	now   func() time.Time
}

// NewGate builds a Gate
func NewGate(t domain.Titler, cfg GateConfig) *Gate {
	g := &Gate{
		titler:  t,
		poll:    cfg.Poll,
		timeout: cfg.Timeout,
		sleep:   ptime.Sleep,
		now:     time.Now,
	}
	for _, s := range pstrings.LowerAll(cfg.Targets) {
		if s = strings.TrimSpace(s); s != "" {
			g.targets = append(g.targets, s)
		}
	}
	if g.poll <= 0 {
		g.poll = time.Second
	}
	return g
}

// Focused reports whether title matches a target
func (g *Gate) Focused(title string) bool {
	lt := strings.ToLower(title)
	for _, t := range g.targets {
		if strings.Contains(lt, t) {
			return true
		}
	}
	return false
}

// Wait polls the focused title until it matches or the timeout elapses (FocusTimeout).
// Title errors count as not focused. done cuts the wait short with a Canceled error
func (g *Gate) Wait(ctx context.Context, done <-chan struct{}) error {
	log := logger.C(ctx)
	deadline := g.now().Add(g.timeout)
	for {
		title, err := g.titler.ActiveTitle(ctx)
		switch {
		case err != nil:
			log.Debug().Err(err).Msg("focus query failed; treating as not focused")
		case g.Focused(title):
			return nil
		}

		left := deadline.Sub(g.now())
		if left <= 0 {
			return perr.FocusTimeoutf("target window not focused within %s", g.timeout)
		}
		if err := g.sleep(ctx, min(g.poll, left), done); err != nil {
			return perr.FromContext(err)
		}
		select {
		case <-done:
			return perr.New(perr.ErrorCodeCanceled, "shutdown while waiting for focus")
		default:
		}
	}
}
