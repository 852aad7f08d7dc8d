package daemon

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/docsite/internal/build"
	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/redirect"
)

// BuildRunner runs one module build.
type BuildRunner interface {
	Run(ctx context.Context, id string, opts build.Options) (*build.Report, error)
}

// Daemon rebuilds configured modules until its context is canceled.
type Daemon struct {
	cfg      *config.Config
	builder  BuildRunner
	metrics  *metrics.PrometheusRecorder
	debounce time.Duration

	// mu serializes rebuilds and redirect regeneration, which both write
	// under the output tree.
	mu sync.Mutex

	// afterBuild is called once per scheduled run, after every module.
	afterBuild func()
}

// New creates a daemon for cfg. rec may be nil.
func New(cfg *config.Config, builder BuildRunner, rec *metrics.PrometheusRecorder) *Daemon {
	return &Daemon{cfg: cfg, builder: builder, metrics: rec, debounce: DefaultDebounce}
}

// OnRunComplete registers fn to run after every scheduled rebuild.
func (d *Daemon) OnRunComplete(fn func()) { d.afterBuild = fn }

// Run schedules rebuilds and blocks until ctx is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	if len(d.cfg.Daemon.Modules) == 0 {
		return errors.ConfigError("daemon.modules must list at least one module").Build()
	}
	if d.cfg.Daemon.Schedule == "" && d.cfg.Daemon.Interval <= 0 {
		return errors.ConfigError("daemon requires daemon.schedule or daemon.interval").Build()
	}

	sched, err := NewScheduler()
	if err != nil {
		return errors.WrapError(err, errors.CategoryDaemon, "failed to create scheduler").Build()
	}
	task := func() { d.RebuildAll(ctx) }
	var jobID string
	if d.cfg.Daemon.Schedule != "" {
		jobID, err = sched.ScheduleCron("rebuild", d.cfg.Daemon.Schedule, task)
	} else {
		jobID, err = sched.ScheduleEvery("rebuild", d.cfg.Daemon.Interval, task)
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid daemon schedule").Build()
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(context.Background()); err != nil {
			slog.Warn("Scheduler shutdown failed", logfields.Error(err))
		}
	}()
	if d.cfg.Daemon.RunOnStart {
		if err := sched.RunNow(jobID); err != nil {
			slog.Warn("Initial rebuild could not be started", logfields.JobID(jobID), logfields.Error(err))
		}
	}

	if d.cfg.Daemon.WatchTemplate && d.cfg.Paths.Template != "" {
		tw, err := NewTemplateWatcher(d.cfg.Paths.Template, d.debounce, d.RegenerateLinks)
		if err != nil {
			return errors.WrapError(err, errors.CategoryDaemon, "failed to create template watcher").Build()
		}
		if err := tw.Start(ctx); err != nil {
			_ = tw.Stop()
			return errors.WrapError(err, errors.CategoryDaemon, "failed to start template watcher").Build()
		}
		defer func() { _ = tw.Stop() }()
	}

	if d.cfg.Metrics.Listen != "" && d.metrics != nil {
		srv := d.serveMetrics()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	slog.Info("Daemon running", slog.Int("modules", len(d.cfg.Daemon.Modules)))
	<-ctx.Done()
	slog.Info("Daemon stopping")
	return nil
}

// RebuildAll builds every configured module in order and returns the number
// of failed builds. A failure does not stop the remaining modules.
func (d *Daemon) RebuildAll(ctx context.Context) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	failed := 0
	for _, id := range d.cfg.Daemon.Modules {
		if ctx.Err() != nil {
			break
		}
		if _, err := d.builder.Run(ctx, id, build.Options{}); err != nil {
			failed++
			slog.Error("Scheduled build failed", logfields.Module(id), logfields.Error(err))
		}
	}
	if d.afterBuild != nil {
		d.afterBuild()
	}
	return failed
}

// RegenerateLinks re-reads the redirect template and rewrites the redirect
// pages of every configured module. It waits for a running rebuild.
func (d *Daemon) RegenerateLinks(_ context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	gen, err := redirect.NewGenerator(redirect.Options{
		TemplatePath:    d.cfg.Paths.Template,
		ReleaseTag:      d.cfg.Redirect.ReleaseTag,
		DocsLinkDir:     d.cfg.Redirect.DocsLinkDir,
		ExamplesLinkDir: d.cfg.Redirect.ExamplesLinkDir,
	})
	if err != nil {
		slog.Error("Failed to reload redirect template", logfields.Error(err))
		return
	}
	for _, id := range d.cfg.Daemon.Modules {
		if _, err := gen.GenerateModule(d.cfg.Paths.Output, id); err != nil {
			slog.Error("Failed to regenerate redirect pages", logfields.Module(id), logfields.Error(err))
		}
	}
}

func (d *Daemon) serveMetrics() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(d.metrics.Registry()))
	srv := &http.Server{
		Addr:              d.cfg.Metrics.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("Serving metrics", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	return srv
}
