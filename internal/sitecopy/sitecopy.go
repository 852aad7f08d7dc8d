// Package sitecopy copies hand-written static pages into the built site.
package sitecopy

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/relocate"
)

// DefaultPattern matches every HTML page below the source root.
const DefaultPattern = "**/*.html"

// Copy copies every regular file under srcRoot matching one of patterns to
// the same relative path under distRoot. A missing srcRoot copies nothing.
// It returns the relative paths copied, in walk order.
func Copy(srcRoot, distRoot string, patterns ...string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}
	info, err := os.Stat(srcRoot)
	if os.IsNotExist(err) {
		slog.Debug("No static source directory, skipping copy", logfields.Path(srcRoot))
		return nil, nil
	}
	if err != nil {
		return nil, errors.IOError("failed to stat static source directory").WithCause(err).WithContext("path", srcRoot).Build()
	}
	if !info.IsDir() {
		return nil, errors.IOError("static source is not a directory").WithContext("path", srcRoot).Build()
	}

	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.ValidationError("invalid copy pattern").WithContext("pattern", p).Build()
		}
	}

	seen := make(map[string]struct{})
	var copied []string
	fsys := os.DirFS(srcRoot)
	for _, p := range patterns {
		err := doublestar.GlobWalk(fsys, p, func(rel string, d fs.DirEntry) error {
			if d.IsDir() {
				return nil
			}
			if _, dup := seen[rel]; dup {
				return nil
			}
			seen[rel] = struct{}{}

			fi, err := d.Info()
			if err != nil {
				return err
			}
			if !fi.Mode().IsRegular() {
				return nil
			}
			src := filepath.Join(srcRoot, filepath.FromSlash(rel))
			dst := filepath.Join(distRoot, filepath.FromSlash(rel))
			if err := relocate.CopyFile(src, dst, fi.Mode().Perm()); err != nil {
				return err
			}
			copied = append(copied, rel)
			return nil
		})
		if err != nil {
			return copied, errors.IOError("failed to copy static pages").
				WithCause(err).
				WithContext("source", srcRoot).
				WithContext("pattern", p).
				Build()
		}
	}

	slog.Info("Copied static pages", logfields.Source(srcRoot), logfields.Dest(distRoot), slog.Int("count", len(copied)))
	return copied, nil
}
