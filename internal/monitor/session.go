package monitor

import (
	"errors"
	"sync"
	"time"

	"github.com/allbin/serial-monitor"
	"github.com/google/uuid"
)

// State is the lifecycle state of the supervisor and its sessions.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateOpen
	StateLost
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateLost:
		return "lost"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session is one open-to-closed lifetime of the serial handle.
type Session struct {
	ID      uuid.UUID
	Path    string
	Baud    int
	Port    serial.Port
	Opened  time.Time
	Retries int // failed open attempts before this session

	mu    sync.Mutex
	state State
}

func newSession(path string, baud int, port serial.Port, retries int) *Session {
	return &Session{
		ID:      uuid.New(),
		Path:    path,
		Baud:    baud,
		Port:    port,
		Opened:  time.Now(),
		Retries: retries,
		state:   StateOpen,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// end closes the handle and records the final state, Lost or Closed.
// Only the first call has an effect.
func (s *Session) end(final State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return nil
	}
	s.state = final
	err := s.Port.Close()
	if errors.Is(err, serial.ErrPortClosed) {
		return nil
	}
	return err
}
