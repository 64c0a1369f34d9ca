package monitor

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/allbin/serial-monitor"
)

// syncBuffer is a bytes.Buffer safe for the concurrent loops.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestConsole() (*Console, *syncBuffer, *syncBuffer) {
	out, errOut := &syncBuffer{}, &syncBuffer{}
	return NewConsole(out, errOut), out, errOut
}

// fakePort replays queued reads, then returns readErr, or idles for
// idle per read until closed.
type fakePort struct {
	mu       sync.Mutex
	reads    [][]byte
	readErr  error
	idle     time.Duration
	writes   []string
	writeErr error
	closeErr error

	closeOnce sync.Once
	closed    chan struct{}
}

func newFakePort(reads ...string) *fakePort {
	p := &fakePort{idle: 10 * time.Millisecond, closed: make(chan struct{})}
	for _, r := range reads {
		p.reads = append(p.reads, []byte(r))
	}
	return p
}

var _ serial.Port = (*fakePort)(nil)

func (p *fakePort) ReadLine() ([]byte, error) {
	select {
	case <-p.closed:
		return nil, serial.ErrPortClosed
	default:
	}

	p.mu.Lock()
	if len(p.reads) > 0 {
		line := p.reads[0]
		p.reads = p.reads[1:]
		p.mu.Unlock()
		return line, nil
	}
	readErr := p.readErr
	p.mu.Unlock()

	if readErr != nil {
		return nil, readErr
	}

	timer := time.NewTimer(p.idle)
	defer timer.Stop()
	select {
	case <-p.closed:
		return nil, serial.ErrPortClosed
	case <-timer.C:
		return nil, nil
	}
}

func (p *fakePort) Write(data []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	p.writes = append(p.writes, string(data))
	return len(data), nil
}

func (p *fakePort) Writes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.writes...)
}

func (p *fakePort) Close() error {
	err := serial.ErrPortClosed
	p.closeOnce.Do(func() {
		close(p.closed)
		err = p.closeErr
	})
	return err
}

func (p *fakePort) isClosed() bool {
	select {
	case <-p.closed:
		return true
	default:
		return false
	}
}

// scriptedInput returns its steps in order, then io.EOF.
type scriptedInput struct {
	mu    sync.Mutex
	steps []inputResult
}

func (in *scriptedInput) Poll(timeout time.Duration) (string, bool, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if len(in.steps) == 0 {
		return "", false, io.EOF
	}
	step := in.steps[0]
	in.steps = in.steps[1:]
	if step.err != nil {
		return "", false, step.err
	}
	return step.line, true, nil
}

// idleInput never produces a line.
type idleInput struct{}

func (idleInput) Poll(timeout time.Duration) (string, bool, error) {
	time.Sleep(timeout)
	return "", false, nil
}

// memorySink records appended lines, optionally failing.
type memorySink struct {
	mu    sync.Mutex
	lines []string
	err   error
}

func (s *memorySink) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.lines = append(s.lines, line)
	return nil
}

func (s *memorySink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}
