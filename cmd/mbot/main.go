package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"mbot/internal/adapters/desktop"
	"mbot/internal/adapters/generative"
	"mbot/internal/core/replies"
	"mbot/internal/core/version"
	"mbot/internal/modkit"
	"mbot/internal/modkit/module"
	"mbot/internal/platform/config"
	perr "mbot/internal/platform/errors"
	"mbot/internal/platform/logger"

	pdomain "mbot/internal/services/pipeline/domain"
	pmod "mbot/internal/services/pipeline/module"
	supdom "mbot/internal/services/supervisor/domain"
	supmod "mbot/internal/services/supervisor/module"
)

func main() {
	logger.Init(logger.FromEnv())
	l := logger.Get()

	bi := version.Info()
	l.Info().Str("version", bi.Version).Str("commit", bi.Commit).Str("date", bi.Date).Msg("mbot starting")

	ctx, stop := interruptContext(context.Background())
	defer stop()

	if err := run(ctx, config.New(), *l); err != nil {
		ev := l.Error().Err(err)
		if e, ok := perr.As(err); ok {
			ev = ev.Str("code", e.Code().String()).Str("op", e.Op()).Str("field", e.Field())
		}
		ev.Msg("mbot stopped with error")
		stop()
		os.Exit(1)
	}
	l.Info().Msg("mbot stopped")
}

var notifyContext = signal.NotifyContext

// interruptContext is cancelled by the first SIGINT/SIGTERM. Signal capture is released right
// after, so a second interrupt kills the process even while a reply is still in flight
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := notifyContext(parent, os.Interrupt, syscall.SIGTERM)
	context.AfterFunc(ctx, stop)
	return ctx, stop
}

func run(ctx context.Context, root config.Conf, l logger.Logger) error {
	deps := modkit.Deps{Cfg: root, Log: l}

	book, err := replies.Load(root.MayString("REPLIES_FILE", ""))
	if err != nil {
		return err
	}

	desk := desktop.New(desktop.Options{
		Cmd:       root.Prefix("DESKTOP_").MayString("XDOTOOL_CMD", "xdotool"),
		TypeDelay: root.Prefix("INJECT_").MayDuration("TYPE_DELAY", 12*time.Millisecond),
	})

	shared := pdomain.Shared{
		Titler:     desk,
		Keyboard:   desk,
		InjectLock: &sync.Mutex{},
		Book:       book,
	}

	gen := root.Prefix("GENAI_")
	if key := gen.MayString("API_KEY", ""); key != "" {
		g, err := generative.New(ctx, generative.Options{
			APIKey:    key,
			Model:     gen.MayString("MODEL", generative.DefaultModel),
			MaxTokens: gen.MayInt("MAX_TOKENS", 120),
			Timeout:   gen.MayDuration("TIMEOUT", 0),
			Persona:   book.Persona,
		})
		if err != nil {
			return err
		}
		shared.Generator = g
	} else {
		l.Warn().Msg("GENAI_API_KEY not set; unmatched questions will get no answer")
	}

	var mods []modkit.Module
	for _, entry := range root.MayCSV("PIPELINES", []string{string(pdomain.KindQuestion), string(pdomain.KindWelcome)}) {
		name, kind := pmod.ParseEntry(entry)
		m, err := pmod.New(deps, kind, pmod.Options{}, modkit.WithPorts(shared), modkit.WithName(name))
		if err != nil {
			return err
		}
		l.Info().Str("pipeline", m.Name()).Str("kind", string(m.Kind())).Msg("pipeline enabled")
		mods = append(mods, m)
	}
	if len(mods) == 0 {
		return perr.WithField(perr.InvalidArgf("no pipelines configured"), "PIPELINES")
	}

	sup := supmod.New(deps, supmod.Options{}, mods...)
	return module.MustPortsOf[supdom.SupervisorPort](sup).Run(ctx)
}
