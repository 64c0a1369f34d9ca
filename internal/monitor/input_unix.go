//go:build unix

package monitor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// FDInput polls a file descriptor with poll(2), so nothing is left
// blocked in read(2) once the monitor stops.
type FDInput struct {
	fd      int
	pending []byte
	buf     []byte
	eof     bool
}

// NewStdinInput returns an Input over the process's standard input.
func NewStdinInput() Input {
	return NewFDInput(int(os.Stdin.Fd()))
}

func NewFDInput(fd int) *FDInput {
	return &FDInput{fd: fd, buf: make([]byte, 1024)}
}

func (in *FDInput) Poll(timeout time.Duration) (string, bool, error) {
	if line, ok := in.next(); ok {
		return line, true, nil
	}
	if in.eof {
		if len(in.pending) > 0 {
			line := string(in.pending)
			in.pending = nil
			return line, true, nil
		}
		return "", false, io.EOF
	}

	fds := []unix.PollFd{{Fd: int32(in.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("poll stdin: %w", err)
	}
	if n == 0 {
		return "", false, nil
	}
	if fds[0].Revents&unix.POLLNVAL != 0 {
		return "", false, fmt.Errorf("poll stdin: invalid descriptor %d", in.fd)
	}

	read, err := unix.Read(in.fd, in.buf)
	if err != nil {
		if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read stdin: %w", err)
	}
	if read == 0 {
		in.eof = true
		return in.Poll(0)
	}

	in.pending = append(in.pending, in.buf[:read]...)
	if line, ok := in.next(); ok {
		return line, true, nil
	}
	return "", false, nil
}

func (in *FDInput) next() (string, bool) {
	idx := bytes.IndexByte(in.pending, '\n')
	if idx < 0 {
		return "", false
	}
	line := string(in.pending[:idx+1])
	in.pending = in.pending[idx+1:]
	return line, true
}
