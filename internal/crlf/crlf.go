// Package crlf finds text files that use CRLF line endings.
package crlf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/allbin/serial-monitor/internal/fswalk"
	"github.com/allbin/serial-monitor/internal/tui/styles"
)

// HasCRLF reports whether the file at path contains "\r\n". Files with a
// NUL byte are treated as binary and never match.
func HasCRLF(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return false, nil
	}
	return bytes.Contains(data, []byte("\r\n")), nil
}

// Result is the outcome of a scan. Paths are relative to the root.
type Result struct {
	Files   []string
	Ignored []string
	Skipped int
}

// Found reports whether any CRLF file was found.
func (r Result) Found() bool {
	return len(r.Files) > 0
}

// Checker scans a tree and reports on Out.
type Checker struct {
	Out     io.Writer
	Ignore  []string
	Verbose bool
}

// Check scans root. It returns fswalk.ErrNotDirectory when root is not a
// directory; unreadable files and directories are reported and skipped.
func (c *Checker) Check(root string) (Result, error) {
	var result Result

	dir, err := fswalk.Root(root)
	if err != nil {
		return result, err
	}

	ignored := fswalk.ResolveIgnored(dir, c.Ignore)
	result.Ignored = ignored
	if c.Verbose {
		fmt.Fprintln(c.Out, styles.TitleStyle.Render("Ignored Directories"))
		if len(ignored) == 0 {
			fmt.Fprintln(c.Out, "  (none)")
		}
		for _, d := range ignored {
			fmt.Fprintf(c.Out, "  %s\n", d)
		}
		fmt.Fprintln(c.Out)
	}

	err = fswalk.Walk(dir, ignored, func(path string, err error) {
		result.Skipped++
		fmt.Fprintf(c.Out, "%s %s\n", styles.ErrorStyle.Render("Permission denied:"), path)
	}, func(path string) error {
		found, err := HasCRLF(path)
		if err != nil {
			result.Skipped++
			fmt.Fprintf(c.Out, "%s %s: %v\n", styles.ErrorStyle.Render("Error reading file"), path, err)
			return nil
		}
		if found {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				rel = path
			}
			result.Files = append(result.Files, rel)
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	if result.Found() {
		fmt.Fprintln(c.Out, styles.ErrorStyle.Render(fmt.Sprintf("Found files with CRLF line endings (%d):", len(result.Files))))
		for _, f := range result.Files {
			fmt.Fprintf(c.Out, "  %s\n", f)
		}
	} else {
		fmt.Fprintln(c.Out, styles.StatusConnectedStyle.Render("No files with CRLF line endings were found."))
	}
	return result, nil
}
