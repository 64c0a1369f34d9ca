package monitor

import (
	"fmt"
	"time"

	"github.com/allbin/serial-monitor/internal/highlight"
	"github.com/allbin/serial-monitor/internal/stamp"
)

// LineReader is the read half of a serial handle.
type LineReader interface {
	ReadLine() ([]byte, error)
}

// LineAppender receives whole lines for the log.
type LineAppender interface {
	Append(line string) error
}

// ReaderLoop prints, highlights and logs device output.
type ReaderLoop struct {
	Port      LineReader
	Console   *Console
	Sink      LineAppender // optional
	Highlight *highlight.Engine
	Stamp     stamp.Mode
	Shutdown  *Shutdown
	Now       func() time.Time
}

// Run reads until shutdown or a read error. A read error is returned
// wrapped in ErrConnectionLost; reads that fail because shutdown closed
// the handle return nil.
func (r *ReaderLoop) Run() error {
	now := r.Now
	if now == nil {
		now = time.Now
	}

	for !r.Shutdown.IsSet() {
		raw, err := r.Port.ReadLine()
		if err != nil {
			if r.Shutdown.IsSet() {
				return nil
			}
			return fmt.Errorf("%w: read: %v", ErrConnectionLost, err)
		}
		if len(raw) == 0 {
			// idle port
			continue
		}

		rec := newRecord(raw, r.Stamp, now(), r.Highlight)
		r.Console.Line(rec.Rendered)

		if r.Sink != nil {
			if err := r.Sink.Append(rec.Logged()); err != nil {
				r.Console.LogError(err)
			}
		}
	}
	return nil
}
