package serial

import "bytes"

// Port is a line-oriented serial connection.
//
// ReadLine and Write may be called concurrently from different
// goroutines, but each direction must have a single caller. Close
// unblocks a pending ReadLine.
type Port interface {
	// ReadLine returns the next line without its delimiter. A nil line
	// with a nil error means the read timeout elapsed with nothing
	// buffered; a partial line is returned when the timeout elapses
	// mid-line (prompts without a trailing newline).
	ReadLine() ([]byte, error)
	Write(data []byte) (int, error)
	Close() error
}

// lineBuffer accumulates raw reads and splits them into lines
type lineBuffer struct {
	pending []byte
	delim   byte
	max     int
}

func newLineBuffer(delim byte, max int) *lineBuffer {
	return &lineBuffer{delim: delim, max: max}
}

func (b *lineBuffer) write(p []byte) {
	b.pending = append(b.pending, p...)
}

// next pops one complete line, or an oversized chunk when no delimiter
// shows up within max bytes.
func (b *lineBuffer) next() ([]byte, bool) {
	if idx := bytes.IndexByte(b.pending, b.delim); idx >= 0 {
		line := bytes.Clone(b.pending[:idx])
		b.pending = b.pending[idx+1:]
		return line, true
	}
	if b.max > 0 && len(b.pending) >= b.max {
		line := bytes.Clone(b.pending[:b.max])
		b.pending = b.pending[b.max:]
		return line, true
	}
	return nil, false
}

// flush returns whatever partial line is buffered.
func (b *lineBuffer) flush() []byte {
	if len(b.pending) == 0 {
		return nil
	}
	line := bytes.Clone(b.pending)
	b.pending = b.pending[:0]
	return line
}
