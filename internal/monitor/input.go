package monitor

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"time"
)

// Input is a source of operator lines that can be polled with a bound.
//
// Poll waits at most timeout for a complete line. ok is false when
// nothing arrived in time. io.EOF means the source is exhausted; any
// other error is reported and polling may continue.
type Input interface {
	Poll(timeout time.Duration) (line string, ok bool, err error)
}

type inputResult struct {
	line string
	err  error
}

// ReaderInput feeds lines from an io.Reader through a goroutine. Read
// errors other than io.EOF are passed on and reading resumes. The
// goroutine may stay blocked in Read after the monitor stops; it holds
// no resources beyond the reader.
type ReaderInput struct {
	lines chan inputResult
	err   error
}

func NewReaderInput(r io.Reader) *ReaderInput {
	in := &ReaderInput{lines: make(chan inputResult)}
	go in.pump(bufio.NewReader(r))
	return in
}

func (in *ReaderInput) pump(r *bufio.Reader) {
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			in.lines <- inputResult{line: line}
		}
		if errors.Is(err, io.EOF) {
			in.lines <- inputResult{err: io.EOF}
			close(in.lines)
			return
		}
		if err != nil {
			// the next send blocks until Poll takes this one, so a
			// persistent error is reported at most once per poll
			in.lines <- inputResult{err: err}
		}
	}
}

func (in *ReaderInput) Poll(timeout time.Duration) (string, bool, error) {
	if in.err != nil {
		return "", false, in.err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res, open := <-in.lines:
		if !open {
			in.err = io.EOF
			return "", false, io.EOF
		}
		if errors.Is(res.err, io.EOF) {
			in.err = io.EOF
			return "", false, io.EOF
		}
		if res.err != nil {
			return "", false, res.err
		}
		return res.line, true, nil
	case <-timer.C:
		return "", false, nil
	}
}

// trimLine strips the line terminator an operator line arrives with.
func trimLine(s string) string {
	return strings.TrimRight(s, "\r\n")
}
