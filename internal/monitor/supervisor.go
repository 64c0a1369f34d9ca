// Package monitor runs an interactive serial session: it keeps the device
// open across unplugs, prints and logs what the device sends, and forwards
// operator input in send mode.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/allbin/serial-monitor"
	"github.com/allbin/serial-monitor/internal/highlight"
	"github.com/allbin/serial-monitor/internal/stamp"
	"github.com/allbin/serial-monitor/internal/tui/styles"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultRetryInterval is the wait between failed open attempts.
const DefaultRetryInterval = 250 * time.Millisecond

// Opener opens the serial device.
type Opener func(path string, baud int) (serial.Port, error)

// OpenSerial is the Opener backed by the serial package.
func OpenSerial(path string, baud int) (serial.Port, error) {
	return serial.Open(path, serial.WithBaudRate(baud))
}

// Options configures a Supervisor.
type Options struct {
	Path          string
	Baud          int
	Send          bool
	Highlight     *highlight.Engine
	Stamp         stamp.Mode
	Sink          LineAppender // optional
	RetryInterval time.Duration
	PollInterval  time.Duration
}

// Supervisor owns the serial handle: it opens it, retries while the
// device is absent, runs the reader and writer loops over it, and
// reconnects when the session is lost.
type Supervisor struct {
	opts     Options
	console  *Console
	input    Input
	shutdown *Shutdown

	// Open and Sleep are replaceable for tests. Sleep returns non-nil
	// when ctx ends before d elapses.
	Open  Opener
	Sleep func(ctx context.Context, d time.Duration) error

	frames []string
	wake   chan struct{}

	mu      sync.Mutex
	state   State
	current *Session
}

// NewSupervisor returns a Supervisor. input may be nil when send mode
// is off.
func NewSupervisor(opts Options, console *Console, input Input) *Supervisor {
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = DefaultRetryInterval
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	return &Supervisor{
		opts:     opts,
		console:  console,
		input:    input,
		shutdown: NewShutdown(),
		Open:     OpenSerial,
		frames:   spinner.MiniDot.Frames,
		wake:     make(chan struct{}, 1),
		state:    StateDisconnected,
	}
}

// State returns the supervisor's current state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Session returns the current session, or nil.
func (s *Supervisor) Session() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Shutdown returns the process-wide stop flag observed by Run.
func (s *Supervisor) Shutdown() *Shutdown {
	return s.shutdown
}

func (s *Supervisor) setState(st State, sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	s.current = sess
}

// Connect opens the device, retrying at RetryInterval until it succeeds
// or ctx ends. Cancellation returns ErrInterrupted. Invalid settings
// fail immediately since no retry can fix them.
func (s *Supervisor) Connect(ctx context.Context) (*Session, error) {
	s.setState(StateConnecting, nil)

	retries := 0
	var lastErr error
	for {
		if ctx.Err() != nil || s.shutdown.IsSet() {
			s.console.EndSpin()
			return nil, ErrInterrupted
		}

		port, err := s.Open(s.opts.Path, s.opts.Baud)
		if err == nil {
			s.console.EndSpin()
			sess := newSession(s.opts.Path, s.opts.Baud, port, retries)
			s.setState(StateOpen, sess)
			log.Debug().
				Str("session", sess.ID.String()).
				Str("port", sess.Path).
				Int("retries", retries).
				Msg("session opened")
			return sess, nil
		}
		if errors.Is(err, serial.ErrInvalidBaudRate) || errors.Is(err, serial.ErrInvalidConfig) {
			s.console.EndSpin()
			return nil, err
		}

		if lastErr == nil || lastErr.Error() != err.Error() {
			log.Debug().Err(err).Str("port", s.opts.Path).Msg("open failed")
		}
		lastErr = err

		retries = s.spin(retries)
		if err := s.sleep(ctx, s.opts.RetryInterval); err != nil {
			s.console.EndSpin()
			return nil, ErrInterrupted
		}
	}
}

// spin draws the next retry frame and returns the attempt count plus one.
func (s *Supervisor) spin(attempt int) int {
	frame := s.frames[attempt%len(s.frames)]
	s.console.Spin(fmt.Sprintf("Waiting for %s %s", s.opts.Path, frame))
	return attempt + 1
}

func (s *Supervisor) sleep(ctx context.Context, d time.Duration) error {
	if s.Sleep != nil {
		return s.Sleep(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-s.wake:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run connects and monitors until ctx ends. It returns ErrInterrupted
// if ctx ends while waiting for the device, nil if it ends during an
// open session, and any unrecoverable error otherwise.
func (s *Supervisor) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, s.shutdown.Set)
	defer stop()

	if unwatch := s.watchDevice(); unwatch != nil {
		defer unwatch()
	}

	for {
		sess, err := s.Connect(ctx)
		if err != nil {
			s.setState(StateClosed, nil)
			return err
		}
		s.console.Status(styles.StatusConnected, "Connected to %s at %d baud", styles.PortStyle.Render(sess.Path), sess.Baud)

		err = s.runSession(sess)

		if s.shutdown.IsSet() {
			s.finish(sess, StateClosed)
			return nil
		}
		if errors.Is(err, ErrConnectionLost) {
			s.finish(sess, StateLost)
			log.Debug().Err(err).Str("session", sess.ID.String()).Msg("session lost")
			s.console.Connection("%v on %s, reconnecting", err, sess.Path)
			continue
		}

		s.finish(sess, StateClosed)
		return err
	}
}

// finish ends sess in the final state and records it as current.
func (s *Supervisor) finish(sess *Session, final State) {
	if err := sess.end(final); err != nil {
		log.Debug().Err(err).Str("session", sess.ID.String()).Msg("close failed")
	}
	s.setState(final, sess)
}

// runSession runs the loops over one session and returns the first
// error. The session's stop flag is raised by process shutdown or by
// either loop failing; raising it closes the handle, which unblocks a
// pending read.
func (s *Supervisor) runSession(sess *Session) error {
	stop := NewShutdown()
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		select {
		case <-s.shutdown.Done():
			stop.Set()
		case <-stop.Done():
		}
		if err := sess.Port.Close(); err != nil && !errors.Is(err, serial.ErrPortClosed) {
			log.Debug().Err(err).Msg("close failed")
		}
	}()

	reader := &ReaderLoop{
		Port:      sess.Port,
		Console:   s.console,
		Sink:      s.opts.Sink,
		Highlight: s.opts.Highlight,
		Stamp:     s.opts.Stamp,
		Shutdown:  stop,
	}

	var g errgroup.Group
	g.Go(func() error {
		defer stop.Set()
		return reader.Run()
	})

	if s.opts.Send && s.input != nil {
		writer := &WriterLoop{
			Port:         sess.Port,
			Input:        s.input,
			Console:      s.console,
			Sink:         s.opts.Sink,
			Stamp:        s.opts.Stamp,
			Shutdown:     stop,
			PollInterval: s.opts.PollInterval,
		}
		g.Go(func() error {
			err := writer.Run()
			if err != nil {
				stop.Set()
			}
			return err
		})
	}

	err := g.Wait()
	stop.Set()
	<-closed
	return err
}

// watchDevice wakes the retry wait when the device node appears. It
// returns nil when the device's directory cannot be watched.
func (s *Supervisor) watchDevice() func() {
	if !filepath.IsAbs(s.opts.Path) {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Debug().Err(err).Msg("device watcher unavailable")
		return nil
	}
	dir := filepath.Dir(s.opts.Path)
	if err := watcher.Add(dir); err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("device watcher unavailable")
		watcher.Close()
		return nil
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name == s.opts.Path && event.Has(fsnotify.Create) {
					select {
					case s.wake <- struct{}{}:
					default:
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Debug().Err(err).Msg("device watcher error")
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}
}
