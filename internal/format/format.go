// Package format runs clang-format over the C and C++ sources of a tree,
// either rewriting them or reporting the diff it would apply.
package format

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/allbin/serial-monitor/internal/fswalk"
	"github.com/allbin/serial-monitor/internal/tui/styles"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultBinary is the formatter looked up in PATH.
const DefaultBinary = "clang-format"

// DefaultExtensions are the source suffixes handed to the formatter.
var DefaultExtensions = []string{".c", ".h", ".cpp", ".hpp", ".cc", ".cxx"}

// ErrToolNotFound is returned when the formatter binary is not in PATH.
var ErrToolNotFound = errors.New("not found in PATH")

// Runner runs name with args and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return out, nil
}

// Formatter formats or checks every matching file under a root.
type Formatter struct {
	Binary     string
	Extensions []string
	Ignore     []string
	Check      bool
	Verbose    bool
	Jobs       int

	Out io.Writer
	Err io.Writer

	Run      Runner
	LookPath func(file string) (string, error)
}

// Result summarizes a run. Paths are relative to the root.
type Result struct {
	Files   []string
	Changed []string
	Failed  int
}

// NeedsFormatting reports whether a check run found unformatted files.
func (r Result) NeedsFormatting() bool {
	return len(r.Changed) > 0
}

type fileResult struct {
	rel     string
	changed bool
	diff    string
	err     error
}

func (f *Formatter) binary() string {
	if f.Binary == "" {
		return DefaultBinary
	}
	return f.Binary
}

// CheckTool verifies the formatter binary can be found.
func (f *Formatter) CheckTool() error {
	lookPath := exec.LookPath
	if f.LookPath != nil {
		lookPath = f.LookPath
	}
	if _, err := lookPath(f.binary()); err != nil {
		return fmt.Errorf("%s %w", f.binary(), ErrToolNotFound)
	}
	return nil
}

// Find resolves root and returns it with the matching files, relative
// to it.
func (f *Formatter) Find(root string) (string, []string, error) {
	dir, err := fswalk.Root(root)
	if err != nil {
		return "", nil, err
	}

	exts := f.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	ignored := fswalk.ResolveIgnored(dir, f.Ignore)
	if f.Verbose {
		if len(ignored) == 0 {
			fmt.Fprintln(f.Out, styles.HintStyle.Render("No directories matched the ignore patterns"))
		} else {
			fmt.Fprintln(f.Out, styles.TitleStyle.Render("Ignored Directories"))
			for _, d := range ignored {
				fmt.Fprintf(f.Out, "  %s\n", d)
			}
		}
		fmt.Fprintln(f.Out)
	}

	var files []string
	err = fswalk.Walk(dir, ignored, func(path string, err error) {
		fmt.Fprintf(f.Err, "%s %s\n", styles.ErrorStyle.Render("Permission denied:"), path)
	}, func(path string) error {
		if !slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	return dir, files, err
}

// Format processes every matching file under root in parallel. Per-file
// failures are reported on Err and counted; they do not stop the run.
func (f *Formatter) Format(ctx context.Context, root string) (Result, error) {
	var result Result

	if err := f.CheckTool(); err != nil {
		return result, err
	}

	dir, files, err := f.Find(root)
	if err != nil {
		return result, err
	}
	result.Files = files

	if f.Verbose {
		fmt.Fprintln(f.Out, styles.TitleStyle.Render(fmt.Sprintf("Files Found (%d)", len(files))))
		for _, rel := range files {
			fmt.Fprintf(f.Out, "  %s\n", rel)
		}
		fmt.Fprintln(f.Out)
	}

	jobs := f.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, rel := range files {
		g.Go(func() error {
			results[i] = f.processFile(gctx, dir, rel)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	for _, r := range results {
		if r.err != nil {
			result.Failed++
			fmt.Fprintf(f.Err, "%s %s: %v\n", styles.ErrorStyle.Render("Error formatting"), r.rel, r.err)
			continue
		}
		if r.changed {
			result.Changed = append(result.Changed, r.rel)
		}
	}

	f.report(result, results)
	return result, nil
}

func (f *Formatter) report(result Result, results []fileResult) {
	if f.Check {
		if !result.NeedsFormatting() {
			fmt.Fprintln(f.Out, styles.StatusConnectedStyle.Render(
				fmt.Sprintf("Check passed: %d files are correctly formatted.", len(result.Files)-result.Failed)))
			return
		}
		fmt.Fprintln(f.Out, styles.ErrorStyle.Render(fmt.Sprintf("Files Requiring Formatting (%d)", len(result.Changed))))
		for _, r := range results {
			if r.err != nil || !r.changed {
				continue
			}
			fmt.Fprintf(f.Out, "❌ %s\n", r.rel)
			if r.diff != "" {
				fmt.Fprintln(f.Out, r.diff)
			}
		}
		return
	}

	if f.Verbose && len(result.Changed) > 0 {
		fmt.Fprintln(f.Out, styles.TitleStyle.Render("Files Reformatted"))
		for _, rel := range result.Changed {
			fmt.Fprintf(f.Out, "✨ %s\n", rel)
		}
		fmt.Fprintln(f.Out)
	}
	fmt.Fprintf(f.Out, "Done. %d files were reformatted.\n", len(result.Changed))
}

// processFile runs the formatter on one file. The formatter's output is
// compared with the file; in check mode a unified diff is produced,
// otherwise the file is rewritten in place.
func (f *Formatter) processFile(ctx context.Context, dir, rel string) fileResult {
	res := fileResult{rel: rel}
	path := filepath.Join(dir, rel)

	original, err := os.ReadFile(path)
	if err != nil {
		res.err = err
		return res
	}

	run := ExecRunner
	if f.Run != nil {
		run = f.Run
	}
	formatted, err := run(ctx, f.binary(), "--style=file", path)
	if err != nil {
		res.err = err
		return res
	}

	if bytes.Equal(original, formatted) {
		return res
	}
	res.changed = true
	log.Debug().Str("file", rel).Bool("check", f.Check).Msg("formatting differs")

	if f.Check {
		res.diff, res.err = unifiedDiff(rel, original, formatted)
		return res
	}

	info, err := os.Stat(path)
	if err != nil {
		res.err = err
		return res
	}
	res.err = os.WriteFile(path, formatted, info.Mode().Perm())
	return res
}

func unifiedDiff(rel string, original, formatted []byte) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(formatted)),
		FromFile: rel,
		ToFile:   rel + " (formatted)",
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}
