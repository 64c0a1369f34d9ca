package monitor

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/allbin/serial-monitor/internal/stamp"
	"github.com/allbin/serial-monitor/internal/tui/styles"
	"github.com/rs/zerolog/log"
)

// DefaultPollInterval bounds how long the writer waits on input before
// re-checking shutdown.
const DefaultPollInterval = 100 * time.Millisecond

// WriterLoop forwards operator lines to the device.
type WriterLoop struct {
	Port         io.Writer
	Input        Input
	Console      *Console
	Sink         LineAppender // optional
	Stamp        stamp.Mode
	Shutdown     *Shutdown
	PollInterval time.Duration
	Now          func() time.Time
}

// Run polls input until shutdown or EOF. A failed write is reported
// and returned wrapped in ErrConnectionLost. Input errors are reported
// and polling continues.
func (w *WriterLoop) Run() error {
	interval := w.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	now := w.Now
	if now == nil {
		now = time.Now
	}

	for !w.Shutdown.IsSet() {
		line, ok, err := w.Input.Poll(interval)
		if w.Shutdown.IsSet() {
			return nil
		}
		if errors.Is(err, io.EOF) {
			log.Debug().Msg("operator input closed")
			return nil
		}
		if err != nil {
			w.Console.InputError(err)
			w.pause(interval)
			continue
		}
		if !ok {
			continue
		}

		if err := w.send(trimLine(line), now()); err != nil {
			return err
		}
	}
	return nil
}

// send writes line plus a newline terminator in one Write call and
// echoes it as a "> line" record.
func (w *WriterLoop) send(line string, at time.Time) error {
	if _, err := w.Port.Write([]byte(line + "\n")); err != nil {
		w.Console.SendError(err)
		return fmt.Errorf("%w: write: %v", ErrConnectionLost, err)
	}
	log.Debug().Str("line", line).Msg("sent")

	prefix := stamp.Prefix(w.Stamp, at)
	w.Console.Line(prefix + styles.SentStyle.Render("> "+line))

	if w.Sink != nil {
		if err := w.Sink.Append(prefix + "> " + line); err != nil {
			w.Console.LogError(err)
		}
	}
	return nil
}

// pause waits one interval or until shutdown.
func (w *WriterLoop) pause(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-w.Shutdown.Done():
	}
}
