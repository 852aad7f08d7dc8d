package relocate

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// Task is a single source to destination move.
type Task struct {
	Source      string
	Destination string
}

// Options controls how Move treats an existing destination.
type Options struct {
	// Overwrite removes an existing destination before moving.
	Overwrite bool
}

// Move relocates t.Source to t.Destination. The destination's parent is
// created when missing. A missing source is a filesystem error.
func Move(t Task, opts Options) error {
	if _, err := os.Lstat(t.Source); err != nil {
		if os.IsNotExist(err) {
			return errors.IOError("relocation source does not exist").
				WithCause(err).
				WithContext("source", t.Source).
				WithContext("destination", t.Destination).
				WithContext("reason", "not_found").
				Build()
		}
		return errors.IOError("failed to stat relocation source").
			WithCause(err).
			WithContext("source", t.Source).
			Build()
	}

	if err := os.MkdirAll(filepath.Dir(t.Destination), 0o750); err != nil {
		return errors.IOError("failed to create destination parent").
			WithCause(err).
			WithContext("path", filepath.Dir(t.Destination)).
			Build()
	}

	if opts.Overwrite {
		if err := os.RemoveAll(t.Destination); err != nil {
			return errors.IOError("failed to replace existing destination").
				WithCause(err).
				WithContext("destination", t.Destination).
				Build()
		}
	}

	err := os.Rename(t.Source, t.Destination)
	if err != nil && isCrossDevice(err) {
		slog.Debug("Rename crosses devices, copying instead", logfields.Source(t.Source), logfields.Dest(t.Destination))
		err = copyThenRemove(t.Source, t.Destination)
	}
	if err != nil {
		return errors.IOError("failed to relocate directory").
			WithCause(err).
			WithContext("source", t.Source).
			WithContext("destination", t.Destination).
			Build()
	}

	slog.Info("Relocated", logfields.Source(t.Source), logfields.Dest(t.Destination))
	return nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if stderrors.As(err, &linkErr) {
		return stderrors.Is(linkErr.Err, syscall.EXDEV)
	}
	return false
}

func copyThenRemove(src, dst string) error {
	if err := CopyTree(src, dst); err != nil {
		_ = os.RemoveAll(dst)
		return err
	}
	return os.RemoveAll(src)
}

// CopyTree copies a file or directory tree from src to dst, preserving modes.
// Symlinks are recreated, not followed.
func CopyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case info.Mode().IsRegular():
			return CopyFile(path, target, info.Mode().Perm())
		default:
			return fmt.Errorf("unsupported file type at %s", path)
		}
	})
}

// CopyFile copies a single regular file, creating dst's parent directory.
func CopyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src) // #nosec G304 -- paths come from the staging tree
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm) // #nosec G304 -- destination is under the output root
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
