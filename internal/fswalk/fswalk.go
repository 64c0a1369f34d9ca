// Package fswalk walks source trees for the maintenance commands. It
// never follows symlinks and skips directories the caller ignores.
package fswalk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// ErrNotDirectory is returned when the walk root is missing or is not a
// directory.
var ErrNotDirectory = errors.New("directory not found")

// Root resolves dir to an absolute, symlink-free directory path.
func Root(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	return resolved, nil
}

// ResolveIgnored maps patterns (paths relative to root) onto the
// directories that actually exist. Patterns naming files or nothing are
// dropped. The result is sorted.
func ResolveIgnored(root string, patterns []string) []string {
	var dirs []string
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		candidate := pattern
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(root, pattern)
		}
		resolved, err := filepath.EvalSymlinks(candidate)
		if err != nil {
			continue
		}
		info, err := os.Stat(resolved)
		if err != nil || !info.IsDir() {
			continue
		}
		if !slices.Contains(dirs, resolved) {
			dirs = append(dirs, resolved)
		}
	}
	slices.Sort(dirs)
	return dirs
}

// Walk calls fn for every regular file under root, skipping symlinks and
// the directories in ignored. Unreadable directories are reported to
// onErr and skipped; onErr may be nil. root must come from Root.
func Walk(root string, ignored []string, onErr func(path string, err error), fn func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				if onErr != nil {
					onErr(path, err)
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			return err
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if d.IsDir() {
			if path != root && slices.Contains(ignored, path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return fn(path)
	})
}
