package monitor

import (
	"sync"
	"sync/atomic"
)

// Shutdown is a one-shot cooperative stop flag. It can be polled with
// IsSet or waited on through Done. Once set it stays set.
type Shutdown struct {
	set  atomic.Bool
	once sync.Once
	done chan struct{}
}

func NewShutdown() *Shutdown {
	return &Shutdown{done: make(chan struct{})}
}

// Set raises the flag. Calls after the first are no-ops.
func (s *Shutdown) Set() {
	s.once.Do(func() {
		s.set.Store(true)
		close(s.done)
	})
}

func (s *Shutdown) IsSet() bool {
	return s.set.Load()
}

// Done is closed when the flag is set.
func (s *Shutdown) Done() <-chan struct{} {
	return s.done
}
