package serial

import "time"

// Parity represents the parity mode
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
	ParityMark
	ParitySpace
)

// Config holds the configuration for a serial port
type Config struct {
	BaudRate  int
	DataBits  int
	StopBits  int
	Parity    Parity
	Delimiter byte

	// ReadTimeout bounds how long ReadLine waits before returning an
	// empty (or partial) line. Multiples of 100ms up to 25.5s.
	ReadTimeout time.Duration

	// MaxLineLength forces a line out once the pending buffer reaches
	// this many bytes without a delimiter.
	MaxLineLength int
}

// Option is a functional option for configuring a serial port
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaudRate:      115200,
		DataBits:      8,
		StopBits:      1,
		Parity:        ParityNone,
		Delimiter:     '\n',
		ReadTimeout:   100 * time.Millisecond,
		MaxLineLength: 4096,
	}
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		if err := checkBaudRate(rate); err != nil {
			return err
		}
		c.BaudRate = rate
		return nil
	}
}

// WithDataBits sets the number of data bits (5, 6, 7, or 8)
func WithDataBits(bits int) Option {
	return func(c *Config) error {
		if bits < 5 || bits > 8 {
			return ErrInvalidConfig
		}
		c.DataBits = bits
		return nil
	}
}

// WithStopBits sets the number of stop bits (1 or 2)
func WithStopBits(bits int) Option {
	return func(c *Config) error {
		if bits != 1 && bits != 2 {
			return ErrInvalidConfig
		}
		c.StopBits = bits
		return nil
	}
}

// WithParity sets the parity mode
func WithParity(parity Parity) Option {
	return func(c *Config) error {
		c.Parity = parity
		return nil
	}
}

// WithDelimiter sets the byte that terminates a line
func WithDelimiter(delim byte) Option {
	return func(c *Config) error {
		c.Delimiter = delim
		return nil
	}
}

// WithReadTimeout sets the idle read timeout. Zero means ReadLine
// returns immediately when no complete line is buffered.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout < 0 || timeout > 25500*time.Millisecond {
			return ErrInvalidConfig
		}
		if timeout%(100*time.Millisecond) != 0 {
			return ErrInvalidConfig
		}
		c.ReadTimeout = timeout
		return nil
	}
}

// WithMaxLineLength caps the size of a single line
func WithMaxLineLength(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return ErrInvalidConfig
		}
		c.MaxLineLength = n
		return nil
	}
}
