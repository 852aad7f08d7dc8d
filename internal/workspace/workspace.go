package workspace

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// Manager handles one module's staging directory.
type Manager struct {
	baseDir  string
	module   string
	path     string
	keep     bool // If true, Cleanup leaves the directory in place
	released bool
}

// NewManager creates a staging manager for module under baseDir.
func NewManager(baseDir, module string) *Manager {
	return &Manager{baseDir: baseDir, module: module}
}

// NewKeepingManager creates a staging manager whose Cleanup keeps the directory.
func NewKeepingManager(baseDir, module string) *Manager {
	m := NewManager(baseDir, module)
	m.keep = true
	return m
}

// Create ensures the staging parent exists. The module directory itself is
// left for the clone to create; an existing one is kept so re-fetches stay idempotent.
func (m *Manager) Create() error {
	if m.module == "" || filepath.Base(m.module) != m.module || m.module == "." || m.module == ".." {
		return errors.ValidationError("invalid staging directory name").
			WithContext("module", m.module).
			Build()
	}
	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return errors.IOError("failed to create staging directory").
			WithCause(err).
			WithContext("path", m.baseDir).
			Build()
	}
	m.path = filepath.Join(m.baseDir, m.module)
	m.released = false
	slog.Debug("Staging directory acquired", logfields.Path(m.path))
	return nil
}

// GetPath returns the path to the staging directory.
func (m *Manager) GetPath() string {
	return m.path
}

// Cleanup removes the staging directory. It is safe to call more than once.
func (m *Manager) Cleanup() error {
	if m.path == "" || m.released {
		return nil
	}
	m.released = true

	if m.keep {
		slog.Info("Keeping staging directory", logfields.Path(m.path))
		return nil
	}

	if err := os.RemoveAll(m.path); err != nil {
		return errors.IOError("failed to remove staging directory").
			WithCause(err).
			WithContext("path", m.path).
			Build()
	}
	slog.Debug("Removed staging directory", logfields.Path(m.path))
	return nil
}

// WithStaging acquires the staging directory for module, runs fn with its
// path and releases it afterwards, also when fn fails or panics. A release
// failure is logged and never replaces fn's result.
func WithStaging(m *Manager, fn func(path string) error) error {
	if err := m.Create(); err != nil {
		return err
	}
	defer func() {
		if err := m.Cleanup(); err != nil {
			slog.Warn("Failed to clean up staging directory", logfields.Path(m.GetPath()), logfields.Error(err))
		}
	}()
	return fn(m.GetPath())
}

// Clean removes each directory recursively. Missing directories are not an
// error. Failures are logged and returned for reporting only.
func Clean(dirs ...string) []error {
	var failed []error
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("Failed to remove directory", logfields.Path(dir), logfields.Error(err))
			failed = append(failed, err)
			continue
		}
		slog.Info("Removed directory", logfields.Path(dir))
	}
	return failed
}
