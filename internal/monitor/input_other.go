//go:build !unix

package monitor

import "os"

// NewStdinInput returns an Input over the process's standard input.
func NewStdinInput() Input {
	return NewReaderInput(os.Stdin)
}
