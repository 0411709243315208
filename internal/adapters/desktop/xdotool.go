// Package desktop talks to the X11 desktop through xdotool: it reads the focused window
// title and delivers key presses and typed text
package desktop

import (
	"context"
	"strconv"
	"strings"
	"time"

	"mbot/internal/adapters/osexec"
	perr "mbot/internal/platform/errors"
)

// Xdotool implements the focus gate's title query and the injector's keyboard
type Xdotool struct {
	cmd       string
	typeDelay time.Duration
	run       osexec.Runner
}

// Options configures Xdotool
type Options struct {
	Cmd       string        // binary, default "xdotool"
	TypeDelay time.Duration // delay between typed characters
	Runner    osexec.Runner // nil uses osexec.Run
}

// New builds an Xdotool
func New(opt Options) *Xdotool {
	x := &Xdotool{cmd: opt.Cmd, typeDelay: opt.TypeDelay, run: opt.Runner}
	if x.cmd == "" {
		x.cmd = "xdotool"
	}
	if x.run == nil {
		x.run = osexec.Run
	}
	return x
}

// ActiveTitle returns the title of the focused window
func (x *Xdotool) ActiveTitle(ctx context.Context) (string, error) {
	out, err := x.run(ctx, x.cmd, "getactivewindow", "getwindowname")
	if err != nil {
		return "", perr.WithOp(err, "desktop.ActiveTitle")
	}
	return strings.TrimSpace(string(out)), nil
}

// Press sends a single key (an xdotool keysym such as "t" or "Return")
func (x *Xdotool) Press(ctx context.Context, key string) error {
	if _, err := x.run(ctx, x.cmd, "key", "--clearmodifiers", key); err != nil {
		return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeInjectionFailed, "press %s", key), "desktop.Press")
	}
	return nil
}

// Type types text verbatim. The "--" keeps text starting with a dash from being read as a flag
func (x *Xdotool) Type(ctx context.Context, text string) error {
	ms := strconv.FormatInt(x.typeDelay.Milliseconds(), 10)
	if _, err := x.run(ctx, x.cmd, "type", "--clearmodifiers", "--delay", ms, "--", text); err != nil {
		return perr.WithOp(perr.Wrap(err, perr.ErrorCodeInjectionFailed, "type text"), "desktop.Type")
	}
	return nil
}
