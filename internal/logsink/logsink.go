// Package logsink appends monitor traffic to a log file.
package logsink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrClosed is returned by Append after Close.
var ErrClosed = errors.New("log sink closed")

// Sink is an append-only, line-atomic log file shared by the reader and
// writer loops.
type Sink struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// DefaultName builds <device>_<YYYY-MM-DD_HH-MM-SS>.log from the last
// element of the device path.
func DefaultName(device string, now time.Time) string {
	base := filepath.Base(device)
	base = strings.NewReplacer(`\`, "_", ":", "_", ".", "_").Replace(base)
	if base == "" || base == "_" || base == string(filepath.Separator) {
		base = "serial"
	}
	return fmt.Sprintf("%s_%s.log", base, now.Format("2006-01-02_15-04-05"))
}

// Open creates dir if needed and opens name inside it for appending.
// An absolute name is used as-is.
func Open(dir, name string) (*Sink, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", dir, err)
	}

	path := name
	if !filepath.IsAbs(name) {
		path = filepath.Join(dir, name)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return &Sink{file: f, path: path}, nil
}

// Path returns the file the sink writes to.
func (s *Sink) Path() string {
	return s.path
}

// Append writes line followed by a newline in a single write.
func (s *Sink) Append(line string) error {
	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	if !strings.HasSuffix(line, "\n") {
		buf = append(buf, '\n')
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return ErrClosed
	}
	if _, err := s.file.Write(buf); err != nil {
		return fmt.Errorf("append to %s: %w", s.path, err)
	}
	return nil
}

// Close flushes and closes the file. Safe to call more than once.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
