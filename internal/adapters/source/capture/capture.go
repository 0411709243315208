// Package capture polls a rectangle of the screen, binarizes the shot and hands back its
// OCR transcript as a Frame
package capture

import (
	"context"
	"image"
	"io"
	"os"
	"strings"
	"time"

	"mbot/internal/core/event"
	perr "mbot/internal/platform/errors"
	"mbot/internal/platform/logger"
	ptime "mbot/internal/platform/time"
)

// Capturer writes a PNG of rect to path, replacing any previous file
type Capturer interface {
	Capture(ctx context.Context, rect image.Rectangle, path string) error
}

// Recognizer transcribes the image at path
type Recognizer interface {
	Recognize(ctx context.Context, path string) (string, error)
}

// Options configures a capture Source
type Options struct {
	Region    image.Rectangle
	Path      string        // single artifact, overwritten every cycle
	Interval  time.Duration // wait between captures
	Cooldown  time.Duration // wait after a frame produced a match
	Threshold uint8         // binarization cut, pixels brighter become white
	Beep      bool          // ring the terminal bell on every capture
	Bell      io.Writer     // where the bell goes, default os.Stdout
}

// Source implements the poll-capture event source. Next must be called from a single goroutine
type Source struct {
	opt   Options
	cap   Capturer
	ocr   Recognizer
	log   *logger.Logger
	sleep ptime.Sleeper
	now   func() time.Time

	open     bool
	started  bool
	cooldown bool
	seq      uint64
}

// New builds a capture Source
func New(opt Options, c Capturer, r Recognizer) *Source {
	if opt.Path == "" {
		opt.Path = "Captured_image.png"
	}
	if opt.Interval <= 0 {
		opt.Interval = time.Second
	}
	if opt.Cooldown <= 0 {
		opt.Cooldown = 10 * time.Second
	}
	if opt.Bell == nil {
		opt.Bell = os.Stdout
	}
	return &Source{
		opt:   opt,
		cap:   c,
		ocr:   r,
		log:   logger.Named("capture"),
		sleep: ptime.Sleep,
		now:   time.Now,
	}
}

// Name identifies the source in logs
func (s *Source) Name() string { return "capture:" + s.opt.Region.String() }

// Open checks the region and artifact location are usable
func (s *Source) Open(_ context.Context) error {
	if s.opt.Region.Empty() {
		return perr.WithField(perr.SourceUnavailablef("capture region %v is empty", s.opt.Region), "OCR_REGION")
	}
	f, err := os.OpenFile(s.opt.Path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return perr.WithField(perr.Wrapf(err, perr.ErrorCodeSourceUnavailable, "capture path %s", s.opt.Path), "OCR_CAPTURE_PATH")
	}
	_ = f.Close()
	s.open, s.started, s.cooldown = true, false, false
	return nil
}

// Matched tells the source the last frame produced an event, so the next wait is the cooldown
func (s *Source) Matched() { s.cooldown = true }

// Next waits for the cadence, captures, binarizes and transcribes. Capture or OCR trouble is
// logged and reported as "no frame yet"
func (s *Source) Next(ctx context.Context) (event.Frame, bool, error) {
	if !s.open {
		return event.Frame{}, false, perr.SourceUnavailablef("capture: not open")
	}
	if s.started {
		wait := s.opt.Interval
		if s.cooldown {
			wait, s.cooldown = s.opt.Cooldown, false
		}
		if err := s.sleep(ctx, wait); err != nil {
			return event.Frame{}, false, err
		}
	}
	s.started = true

	if err := s.cap.Capture(ctx, s.opt.Region, s.opt.Path); err != nil {
		if ctx.Err() != nil {
			return event.Frame{}, false, ctx.Err()
		}
		s.log.Warn().Err(perr.Wrap(err, perr.ErrorCodeCaptureFailed, "capture")).Msg("capture failed")
		return event.Frame{}, false, nil
	}
	if s.opt.Beep {
		_, _ = io.WriteString(s.opt.Bell, "\a")
	}
	s.log.Debug().Str("path", s.opt.Path).Msg("new screenshot saved (overwritten)")

	if err := Binarize(s.opt.Path, s.opt.Threshold); err != nil {
		s.log.Warn().Err(err).Msg("binarize failed")
		return event.Frame{}, false, nil
	}

	text, err := s.ocr.Recognize(ctx, s.opt.Path)
	if err != nil {
		if ctx.Err() != nil {
			return event.Frame{}, false, ctx.Err()
		}
		s.log.Warn().Err(perr.Wrap(err, perr.ErrorCodeCaptureFailed, "ocr")).Msg("ocr failed")
		return event.Frame{}, false, nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return event.Frame{}, false, nil
	}
	s.log.Debug().Str("text", text).Msg("detected text from screenshot")

	s.seq++
	return event.Frame{Text: text, At: s.now(), Seq: s.seq}, true, nil
}

// Close ends the session; the artifact is left in place for inspection
func (s *Source) Close() error {
	s.open = false
	return nil
}
