package service

import (
	"context"
	"time"

	"mbot/internal/core/normalize"
	perr "mbot/internal/platform/errors"
	ptime "mbot/internal/platform/time"
	"mbot/internal/services/pipeline/domain"
)

// InjectConfig configures the keystroke sequence
type InjectConfig struct {
	OpenKey   string
	SubmitKey string
	Settle    time.Duration
	Sanitize  bool
}

// Injector opens the chat line, types a response and submits it. Delivery is not confirmed
type Injector struct {
	kb    domain.Keyboard
	cfg   InjectConfig
	sleep ptime.Sleeper
}

// NewInjector builds an Injector
func NewInjector(kb domain.Keyboard, cfg InjectConfig) *Injector {
	if cfg.OpenKey == "" {
		cfg.OpenKey = "t"
	}
	if cfg.SubmitKey == "" {
		cfg.SubmitKey = "Return"
	}
	return &Injector{kb: kb, cfg: cfg, sleep: ptime.Sleep}
}

// Inject runs open, settle, type, submit. It is never cut short by the shutdown signal,
// only by ctx
func (i *Injector) Inject(ctx context.Context, text string) error {
	if i.cfg.Sanitize {
		text = normalize.Sanitize(text)
	}
	if err := i.kb.Press(ctx, i.cfg.OpenKey); err != nil {
		return perr.WrapIf(err, perr.ErrorCodeInjectionFailed, "open chat")
	}
	if err := i.sleep(ctx, i.cfg.Settle); err != nil {
		return perr.FromContext(err)
	}
	if err := i.kb.Type(ctx, text); err != nil {
		return perr.WrapIf(err, perr.ErrorCodeInjectionFailed, "type response")
	}
	if err := i.kb.Press(ctx, i.cfg.SubmitKey); err != nil {
		return perr.WrapIf(err, perr.ErrorCodeInjectionFailed, "submit")
	}
	return nil
}
