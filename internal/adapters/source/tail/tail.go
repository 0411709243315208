// Package tail follows an append-only log file from its current end, one line per Frame
package tail

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"mbot/internal/core/event"
	perr "mbot/internal/platform/errors"
	"mbot/internal/platform/logger"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is how long Next waits for new data before reporting "nothing yet"
const DefaultPollInterval = 100 * time.Millisecond

// Options configures a tail Source
type Options struct {
	Path         string
	PollInterval time.Duration
}

// Source tails one file. Next must be called from a single goroutine; Open/Close may be
// repeated to restart the session at the then-current end of file
type Source struct {
	path string
	poll time.Duration
	log  *logger.Logger

	f       *os.File
	r       *bufio.Reader
	partial strings.Builder
	seq     uint64

	mu      sync.Mutex // guards watcher lifecycle
	watcher *fsnotify.Watcher
	wake    chan struct{}
	gone    atomic.Bool
	watchWG sync.WaitGroup
	now     func() time.Time
}

// New returns an unopened Source
func New(opt Options) *Source {
	s := &Source{
		path: filepath.Clean(opt.Path),
		poll: opt.PollInterval,
		log:  logger.Named("tail"),
		now:  time.Now,
	}
	if s.poll <= 0 {
		s.poll = DefaultPollInterval
	}
	return s
}

// Name identifies the source in logs
func (s *Source) Name() string { return "tail:" + s.path }

// Open positions a fresh session at the end of the file. History is never replayed
func (s *Source) Open(_ context.Context) error {
	if s.f != nil {
		return nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		return perr.WithField(perr.Wrapf(err, perr.ErrorCodeSourceUnavailable, "open %s", s.path), "SOURCE_LOG_PATH")
	}
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		_ = f.Close()
		return perr.Wrapf(err, perr.ErrorCodeSourceUnavailable, "seek %s", s.path)
	}
	s.f = f
	s.r = bufio.NewReader(f)
	s.partial.Reset()
	s.gone.Store(false)
	s.startWatcher()
	return nil
}

// startWatcher watches the parent directory: a watch on the file itself would not report
// an unlink while we still hold it open
func (s *Source) startWatcher() {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		s.log.Warn().Err(err).Msg("fsnotify unavailable; falling back to polling")
		return
	}
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		s.log.Warn().Err(err).Str("dir", filepath.Dir(s.path)).Msg("watch failed; falling back to polling")
		_ = w.Close()
		return
	}
	s.watcher = w
	s.wake = make(chan struct{}, 1)
	s.watchWG.Add(1)
	go s.watch(w, s.wake)
}

func (s *Source) watch(w *fsnotify.Watcher, wake chan<- struct{}) {
	defer s.watchWG.Done()
	nudge := func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	}
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != s.path {
				continue
			}
			switch {
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				s.gone.Store(true)
				nudge()
			case ev.Has(fsnotify.Write):
				nudge()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// Next returns the next complete line. When none is available it waits up to the poll
// interval, returning ok=false if still nothing arrived. A removed or renamed file ends the
// source with SourceUnavailable
func (s *Source) Next(ctx context.Context) (event.Frame, bool, error) {
	if s.f == nil {
		return event.Frame{}, false, perr.SourceUnavailablef("tail %s: not open", s.path)
	}
	if f, ok, err := s.tryLine(); ok || err != nil {
		return f, ok, err
	}
	if err := s.checkGone(); err != nil {
		return event.Frame{}, false, err
	}

	t := time.NewTimer(s.poll)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return event.Frame{}, false, ctx.Err()
	case <-s.wake: // nil when unwatched, blocks forever
	case <-t.C:
	}

	if f, ok, err := s.tryLine(); ok || err != nil {
		return f, ok, err
	}
	return event.Frame{}, false, s.checkGone()
}

func (s *Source) tryLine() (event.Frame, bool, error) {
	chunk, err := s.r.ReadString('\n')
	s.partial.WriteString(chunk) // a line without its newline waits here for the rest
	switch {
	case err == nil:
		line := strings.TrimRight(s.partial.String(), "\r\n")
		s.partial.Reset()
		s.seq++
		return event.Frame{Text: strings.ToValidUTF8(line, ""), At: s.now(), Seq: s.seq}, true, nil
	case errors.Is(err, io.EOF):
		return event.Frame{}, false, nil
	default:
		return event.Frame{}, false, perr.Wrapf(err, perr.ErrorCodeSourceUnavailable, "read %s", s.path)
	}
}

func (s *Source) checkGone() error {
	s.mu.Lock()
	watched := s.watcher != nil
	s.mu.Unlock()
	if !watched {
		if _, err := os.Stat(s.path); err != nil {
			s.gone.Store(true)
		}
	}
	if s.gone.Load() {
		return perr.SourceUnavailablef("tail %s: file removed or renamed", s.path)
	}
	return nil
}

// Close ends the session and stops the watcher. Safe to call more than once
func (s *Source) Close() error {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.wake = nil
	s.mu.Unlock()
	if w != nil {
		_ = w.Close()
		s.watchWG.Wait()
	}
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f, s.r = nil, nil
	return err
}
