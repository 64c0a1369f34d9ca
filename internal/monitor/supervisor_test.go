package monitor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/allbin/serial-monitor"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openSequence returns an Opener that replays results in order; the
// last entry repeats.
func openSequence(results ...any) (Opener, func() int) {
	var mu sync.Mutex
	calls := 0
	open := func(path string, baud int) (serial.Port, error) {
		mu.Lock()
		defer mu.Unlock()
		i := calls
		if i >= len(results) {
			i = len(results) - 1
		}
		calls++
		switch r := results[i].(type) {
		case *fakePort:
			return r, nil
		case error:
			return nil, r
		}
		panic("unexpected open result")
	}
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return calls
	}
	return open, count
}

func noSleep(sleeps *int) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*sleeps++
		return ctx.Err()
	}
}

func TestConnectRetriesUntilOpen(t *testing.T) {
	port := newFakePort()
	console, _, errOut := newTestConsole()

	s := NewSupervisor(Options{Path: "/dev/ttyACM0", Baud: 115200}, console, nil)
	open, calls := openSequence(serial.ErrDeviceNotFound, serial.ErrDeviceNotFound, port)
	s.Open = open
	sleeps := 0
	s.Sleep = noSleep(&sleeps)

	sess, err := s.Connect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, calls())
	assert.Equal(t, 2, sleeps)
	assert.Equal(t, 2, sess.Retries)
	assert.Equal(t, StateOpen, s.State())
	assert.Equal(t, StateOpen, sess.State())
	assert.Same(t, sess, s.Session())
	assert.Contains(t, errOut.String(), "Waiting for /dev/ttyACM0")
}

func TestConnectOpensWithoutRetry(t *testing.T) {
	console, _, errOut := newTestConsole()
	s := NewSupervisor(Options{Path: "/dev/ttyACM0", Baud: 9600}, console, nil)
	open, calls := openSequence(newFakePort())
	s.Open = open
	sleeps := 0
	s.Sleep = noSleep(&sleeps)

	sess, err := s.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls())
	assert.Zero(t, sleeps)
	assert.Zero(t, sess.Retries)
	assert.Equal(t, 9600, sess.Baud)
	assert.NotContains(t, errOut.String(), "Waiting")
}

func TestSpinAdvancesAttempt(t *testing.T) {
	console, _, errOut := newTestConsole()
	s := NewSupervisor(Options{Path: "p"}, console, nil)

	assert.Equal(t, 1, s.spin(0))
	assert.Equal(t, 6, s.spin(5))
	assert.Contains(t, errOut.String(), "Waiting for p")
}

func TestConnectInterrupted(t *testing.T) {
	console, _, _ := newTestConsole()
	s := NewSupervisor(Options{Path: "/dev/ttyACM0"}, console, nil)
	s.Open, _ = openSequence(serial.ErrDeviceNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	s.Sleep = func(ctx context.Context, d time.Duration) error {
		attempts++
		if attempts == 3 {
			cancel()
		}
		return ctx.Err()
	}

	_, err := s.Connect(ctx)
	require.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, 3, attempts)
}

func TestConnectInvalidSettingsFailFast(t *testing.T) {
	console, _, _ := newTestConsole()
	s := NewSupervisor(Options{Path: "/dev/ttyACM0", Baud: 12345}, console, nil)
	open, calls := openSequence(serial.ErrInvalidBaudRate)
	s.Open = open
	sleeps := 0
	s.Sleep = noSleep(&sleeps)

	_, err := s.Connect(context.Background())
	require.ErrorIs(t, err, serial.ErrInvalidBaudRate)
	assert.Equal(t, 1, calls())
	assert.Zero(t, sleeps)
}

func TestRunReconnectsAfterLoss(t *testing.T) {
	first := newFakePort("a")
	first.readErr = serial.ErrHangup
	second := newFakePort("b")

	console, out, errOut := newTestConsole()
	s := NewSupervisor(Options{Path: "/dev/ttyACM0", Baud: 115200}, console, nil)
	s.Open, _ = openSequence(first, serial.ErrDeviceNotFound, second)
	sleeps := 0
	s.Sleep = noSleep(&sleeps)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "b\n")
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.Equal(t, "a\nb\n", out.String())
	assert.Contains(t, errOut.String(), PrefixConnection)
	assert.True(t, first.isClosed())
	assert.True(t, second.isClosed())
	assert.Equal(t, StateClosed, s.State())
	assert.Equal(t, 1, sleeps)
}

func TestRunShutdownClosesSession(t *testing.T) {
	port := newFakePort()
	console, _, _ := newTestConsole()
	s := NewSupervisor(Options{Path: "/dev/ttyACM0", Send: true, PollInterval: 20 * time.Millisecond}, console, idleInput{})
	s.Open, _ = openSequence(port)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return s.State() == StateOpen }, time.Second, 5*time.Millisecond)
	sess := s.Session()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.True(t, port.isClosed())
	assert.True(t, s.Shutdown().IsSet())
	assert.Equal(t, StateClosed, sess.State())
	assert.Equal(t, StateClosed, s.State())
}

func TestRunWriteFailureReconnects(t *testing.T) {
	first := newFakePort()
	first.writeErr = errors.New("EIO")
	second := newFakePort()

	console, _, errOut := newTestConsole()
	input := &scriptedInput{steps: []inputResult{{line: "ping\n"}}}
	s := NewSupervisor(Options{Path: "/dev/ttyACM0", Send: true}, console, input)
	s.Open, _ = openSequence(first, second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		sess := s.Session()
		return sess != nil && sess.Port == serial.Port(second) && s.State() == StateOpen
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, errOut.String(), PrefixSend)
	assert.True(t, first.isClosed())
}

func TestRunInterruptedWhileWaiting(t *testing.T) {
	console, _, _ := newTestConsole()
	s := NewSupervisor(Options{Path: "/dev/ttyACM0", RetryInterval: 10 * time.Millisecond}, console, nil)
	s.Open, _ = openSequence(serial.ErrDeviceNotFound)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, s.Run(ctx), ErrInterrupted)
	assert.Equal(t, StateClosed, s.State())
}

func TestSleepWakesOnDeviceCreate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ttyFAKE0")

	console, _, _ := newTestConsole()
	s := NewSupervisor(Options{Path: path}, console, nil)
	unwatch := s.watchDevice()
	require.NotNil(t, unwatch)
	defer unwatch()

	go func() {
		time.Sleep(20 * time.Millisecond)
		os.WriteFile(path, nil, 0o644)
	}()

	start := time.Now()
	require.NoError(t, s.sleep(context.Background(), 10*time.Second))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestWatchDeviceSkipsRelativePaths(t *testing.T) {
	console, _, _ := newTestConsole()
	s := NewSupervisor(Options{Path: "COM3"}, console, nil)
	assert.Nil(t, s.watchDevice())
}

func TestFinishLogsCloseError(t *testing.T) {
	var logs bytes.Buffer
	saved := log.Logger
	log.Logger = zerolog.New(&logs).Level(zerolog.DebugLevel)
	t.Cleanup(func() { log.Logger = saved })

	port := newFakePort()
	port.closeErr = errors.New("EIO on close")
	console, _, _ := newTestConsole()
	s := NewSupervisor(Options{Path: "/dev/ttyACM0"}, console, nil)
	sess := newSession("/dev/ttyACM0", 115200, port, 0)

	s.finish(sess, StateClosed)

	assert.True(t, port.isClosed())
	assert.Equal(t, StateClosed, sess.State())
	assert.Equal(t, StateClosed, s.State())
	assert.Same(t, sess, s.Session())
	assert.Contains(t, logs.String(), "close failed")
	assert.Contains(t, logs.String(), "EIO on close")
}
