//go:build !linux

package serial

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	bugst "go.bug.st/serial"
)

// port wraps a go.bug.st/serial handle for platforms without the
// termios implementation
type port struct {
	conn      bugst.Port
	config    Config
	lines     *lineBuffer
	buf       []byte
	closed    atomic.Bool
	closeOnce sync.Once
	writeMu   sync.Mutex
}

var _ Port = (*port)(nil)

func checkBaudRate(rate int) error {
	if rate <= 0 {
		return ErrInvalidBaudRate
	}
	return nil
}

func openError(device string, err error) error {
	var portErr *bugst.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case bugst.PortNotFound:
			return fmt.Errorf("failed to open %s: %w", device, ErrDeviceNotFound)
		case bugst.PermissionDenied:
			return fmt.Errorf("failed to open %s: %w", device, ErrPermissionDenied)
		case bugst.PortBusy:
			return fmt.Errorf("failed to open %s: %w", device, ErrDeviceInUse)
		case bugst.InvalidSpeed:
			return fmt.Errorf("failed to open %s: %w", device, ErrInvalidBaudRate)
		}
	}
	return fmt.Errorf("failed to open %s: %v", device, err)
}

// Open opens a serial port with the given device path and options
func Open(device string, opts ...Option) (Port, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}

	mode := &bugst.Mode{
		BaudRate: config.BaudRate,
		DataBits: config.DataBits,
		Parity:   bugstParity(config.Parity),
		StopBits: bugst.OneStopBit,
	}
	if config.StopBits == 2 {
		mode.StopBits = bugst.TwoStopBits
	}

	conn, err := bugst.Open(device, mode)
	if err != nil {
		return nil, openError(device, err)
	}
	if err := conn.SetReadTimeout(config.ReadTimeout); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set read timeout: %v", err)
	}

	return &port{
		conn:   conn,
		config: config,
		lines:  newLineBuffer(config.Delimiter, config.MaxLineLength),
		buf:    make([]byte, 4096),
	}, nil
}

func bugstParity(p Parity) bugst.Parity {
	switch p {
	case ParityOdd:
		return bugst.OddParity
	case ParityEven:
		return bugst.EvenParity
	case ParityMark:
		return bugst.MarkParity
	case ParitySpace:
		return bugst.SpaceParity
	default:
		return bugst.NoParity
	}
}

// ReadLine reads the next line, waiting at most ReadTimeout for data
func (p *port) ReadLine() ([]byte, error) {
	if line, ok := p.lines.next(); ok {
		return line, nil
	}

	for {
		if p.closed.Load() {
			return nil, ErrPortClosed
		}
		n, err := p.conn.Read(p.buf)
		if p.closed.Load() {
			return nil, ErrPortClosed
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHangup, err)
		}
		if n == 0 {
			// go.bug.st/serial reports a timeout as a zero-length read
			return p.lines.flush(), nil
		}

		p.lines.write(p.buf[:n])
		if line, ok := p.lines.next(); ok {
			return line, nil
		}
	}
}

// Write writes all of data to the serial port
func (p *port) Write(data []byte) (int, error) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	written := 0
	for written < len(data) {
		if p.closed.Load() {
			return written, ErrPortClosed
		}
		n, err := p.conn.Write(data[written:])
		if err != nil {
			return written, err
		}
		written += n
	}
	return written, nil
}

// Close closes the port. Safe to call multiple times.
func (p *port) Close() error {
	err := ErrPortClosed
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		err = p.conn.Close()
	})
	return err
}
