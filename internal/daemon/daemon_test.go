package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/build"
	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

type fakeBuilder struct {
	mu    sync.Mutex
	built []string
	fail  map[string]bool
}

func (f *fakeBuilder) Run(_ context.Context, id string, _ build.Options) (*build.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.built = append(f.built, id)
	if f.fail[id] {
		return &build.Report{Module: id, Status: build.StatusFailed}, fmt.Errorf("build %s failed", id)
	}
	return &build.Report{Module: id, Status: build.StatusSuccess}, nil
}

func (f *fakeBuilder) builds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.built...)
}

func daemonConfig(t *testing.T, modules ...string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.Output = filepath.Join(t.TempDir(), "dist")
	cfg.Daemon.Modules = modules
	return cfg
}

func TestRebuildAll_ContinuesAfterFailure(t *testing.T) {
	fb := &fakeBuilder{fail: map[string]bool{"octree": true}}
	d := New(daemonConfig(t, "quadtree", "octree", "kdtree"), fb, nil)

	var completed int
	d.OnRunComplete(func() { completed++ })

	failed := d.RebuildAll(t.Context())
	assert.Equal(t, 1, failed)
	assert.Equal(t, []string{"quadtree", "octree", "kdtree"}, fb.builds())
	assert.Equal(t, 1, completed)
}

func TestRebuildAll_StopsWhenCanceled(t *testing.T) {
	fb := &fakeBuilder{}
	d := New(daemonConfig(t, "quadtree", "octree"), fb, nil)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	d.RebuildAll(ctx)
	assert.Empty(t, fb.builds())
}

func TestRegenerateLinks(t *testing.T) {
	cfg := daemonConfig(t, "quadtree")
	cfg.Paths.Template = filepath.Join(t.TempDir(), "tmpl.html")
	require.NoError(t, os.WriteFile(cfg.Paths.Template, []byte(`<script>var m = $_MODULE_BASE_NAME; // v2</script>`), 0o600))

	New(cfg, &fakeBuilder{}, nil).RegenerateLinks(t.Context())

	data, err := os.ReadFile(filepath.Join(cfg.Paths.Output, "docs", "quadtree", "docs", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, `<script>var m = "quadtree"; // v2</script>`, string(data))
}

func TestRun_RequiresModulesAndSchedule(t *testing.T) {
	err := New(daemonConfig(t), &fakeBuilder{}, nil).Run(t.Context())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	err = New(daemonConfig(t, "quadtree"), &fakeBuilder{}, nil).Run(t.Context())
	require.Error(t, err)
}

func TestRun_IntervalRebuildsUntilCanceled(t *testing.T) {
	cfg := daemonConfig(t, "quadtree")
	cfg.Daemon.Interval = 50 * time.Millisecond
	fb := &fakeBuilder{}
	d := New(cfg, fb, nil)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool { return len(fb.builds()) >= 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop after cancel")
	}
}

func TestRun_InvalidCron(t *testing.T) {
	cfg := daemonConfig(t, "quadtree")
	cfg.Daemon.Schedule = "not a cron"
	err := New(cfg, &fakeBuilder{}, nil).Run(t.Context())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

// blockingBuilder holds every build until release is closed.
type blockingBuilder struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingBuilder) Run(context.Context, string, build.Options) (*build.Report, error) {
	close(b.started)
	<-b.release
	return &build.Report{Status: build.StatusSuccess}, nil
}

func TestRegenerateLinks_WaitsForRunningRebuild(t *testing.T) {
	cfg := daemonConfig(t, "quadtree")
	bb := &blockingBuilder{started: make(chan struct{}), release: make(chan struct{})}
	d := New(cfg, bb, nil)

	rebuilt := make(chan struct{})
	go func() {
		d.RebuildAll(t.Context())
		close(rebuilt)
	}()
	<-bb.started

	regenerated := make(chan struct{})
	go func() {
		d.RegenerateLinks(t.Context())
		close(regenerated)
	}()

	page := filepath.Join(cfg.Paths.Output, "docs", "quadtree", "docs", "index.html")
	select {
	case <-regenerated:
		t.Fatal("redirect pages were regenerated while a rebuild was running")
	case <-time.After(100 * time.Millisecond):
	}
	assert.NoFileExists(t, page)

	close(bb.release)
	<-rebuilt
	select {
	case <-regenerated:
	case <-time.After(5 * time.Second):
		t.Fatal("regeneration did not run after the rebuild finished")
	}
	assert.FileExists(t, page)
}

func TestRun_RunOnStartRebuildsImmediately(t *testing.T) {
	cfg := daemonConfig(t, "quadtree")
	cfg.Daemon.Schedule = "0 3 * * *"
	cfg.Daemon.RunOnStart = true
	fb := &fakeBuilder{}
	d := New(cfg, fb, nil)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool { return len(fb.builds()) == 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}
