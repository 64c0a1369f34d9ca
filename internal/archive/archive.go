// Package archive zips a log directory next to itself and removes the
// original once the archive is complete.
package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/allbin/serial-monitor/internal/tui/styles"
	"github.com/klauspost/compress/zip"
)

// StampLayout is the time format used in archive names.
const StampLayout = "2006-01-02_15-04-05"

// ErrNotFound is returned when the directory to archive does not exist.
var ErrNotFound = errors.New("directory not found")

// Name returns the archive file name for dir at t.
func Name(dir string, t time.Time) string {
	return fmt.Sprintf("%s-%s.zip", filepath.Base(dir), t.Format(StampLayout))
}

// Archiver archives log directories, reporting progress on Out.
type Archiver struct {
	Out io.Writer
	Now func() time.Time
}

// Archive writes <parent>/<name>-<stamp>.zip with every file of dir
// stored under <name>/, then deletes dir. On any failure a partial
// archive is removed and dir is left in place. It returns the archive
// path.
func (a *Archiver) Archive(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(a.Out, "%s The directory '%s' was not found.\n", styles.ErrorStyle.Render("Error:"), dir)
		return "", fmt.Errorf("%w: %s", ErrNotFound, dir)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", a.fail(dir, err)
	}
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	target := filepath.Join(filepath.Dir(abs), Name(abs, now()))

	fmt.Fprintf(a.Out, "Archiving %s to %s\n", styles.PortStyle.Render(abs), target)
	if err := writeZip(target, abs); err != nil {
		return "", a.fail(dir, err)
	}
	fmt.Fprintf(a.Out, "%s %s\n", styles.StatusConnectedStyle.Render("Archive created successfully:"), target)

	if err := os.RemoveAll(abs); err != nil {
		return target, a.fail(dir, err)
	}
	fmt.Fprintf(a.Out, "Cleanup complete: %s deleted.\n", abs)
	return target, nil
}

func (a *Archiver) fail(dir string, err error) error {
	fmt.Fprintf(a.Out, "%s %v\n", styles.ErrorStyle.Render("An error occurred during the process:"), err)
	fmt.Fprintf(a.Out, "The original %s folder was NOT deleted.\n", filepath.Base(dir))
	return err
}

func writeZip(target, dir string) error {
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	zw := zip.NewWriter(f)
	base := filepath.Base(dir)
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(filepath.Join(base, rel))

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			_, err := zw.Create(name + "/")
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return addFile(zw, path, name)
	})

	closeErr := zw.Close()
	fileErr := f.Close()
	if err := errors.Join(walkErr, closeErr, fileErr); err != nil {
		os.Remove(target)
		return err
	}
	return nil
}

func addFile(zw *zip.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(w, src)
	return err
}
