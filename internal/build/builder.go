package build

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/events"
	"git.home.luguber.info/inful/docsite/internal/fetch"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/git"
	"git.home.luguber.info/inful/docsite/internal/history"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/markdown"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/observability"
	"git.home.luguber.info/inful/docsite/internal/relocate"
	"git.home.luguber.info/inful/docsite/internal/sitecopy"
	"git.home.luguber.info/inful/docsite/internal/workspace"
)

// Options selects what to build. Tag and Version are mutually exclusive.
type Options struct {
	Tag     string
	Version string
}

// HistoryAppender stores finished builds.
type HistoryAppender interface {
	Append(ctx context.Context, r history.Record) error
}

// Builder runs builds for a configuration.
type Builder struct {
	cfg         *config.Config
	fetcher     *fetch.Fetcher
	relocator   relocate.Relocator
	links       LinkGenerator
	recorder    metrics.Recorder
	history     HistoryAppender
	publisher   events.Publisher
	headCommit  func(path string) (string, error)
	keepStaging bool
}

// New creates a Builder cloning with cloner and writing redirect pages with links.
func New(cfg *config.Config, cloner fetch.Cloner, links LinkGenerator) *Builder {
	src := fetch.Source{Scheme: cfg.Source.Scheme, Host: cfg.Source.Host, Owner: cfg.Source.Owner}
	return &Builder{
		cfg:     cfg,
		fetcher: fetch.NewFetcher(src, cfg.Paths.Packages, cloner).WithDepth(cfg.Git.Depth),
		relocator: relocate.Relocator{
			PackagesDir: cfg.Paths.Packages,
			OutputDir:   cfg.Paths.Output,
			Overwrite:   cfg.Build.OverwriteEnabled(),
		},
		links:      links,
		recorder:   metrics.NoopRecorder{},
		publisher:  events.NoopPublisher{},
		headCommit: git.HeadCommit,
	}
}

// WithRecorder sets the metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r != nil {
		b.recorder = r
	}
	return b
}

// WithHistory records every build in h.
func (b *Builder) WithHistory(h HistoryAppender) *Builder {
	b.history = h
	return b
}

// WithPublisher publishes an event for every build.
func (b *Builder) WithPublisher(p events.Publisher) *Builder {
	if p != nil {
		b.publisher = p
	}
	return b
}

// WithKeepStaging leaves the staging clone in place after the build.
func (b *Builder) WithKeepStaging(keep bool) *Builder {
	b.keepStaging = keep
	return b
}

// Run builds module rawID. The returned report is never nil; its Err equals
// the returned error.
func (b *Builder) Run(ctx context.Context, rawID string, opts Options) (*Report, error) {
	rep := &Report{
		BuildID:   uuid.NewString(),
		Module:    rawID,
		StartTime: time.Now(),
	}
	ctx = observability.WithBuildID(ctx, rep.BuildID)

	err := b.run(ctx, rep, rawID, opts)
	b.finish(ctx, rep, err)
	return rep, err
}

func (b *Builder) run(ctx context.Context, rep *Report, rawID string, opts Options) error {
	id, err := NormalizeModuleID(rawID)
	if err != nil {
		return err
	}
	rep.Module = id
	ctx = observability.WithModule(ctx, id)
	observability.InfoContext(ctx, "Starting build")

	out := b.cfg.Paths.Output
	if err := b.stage(ctx, rep, StagePrepare, func(context.Context) error {
		return prepareOutput(out)
	}); err != nil {
		return err
	}

	mgr := workspace.NewManager(b.cfg.Paths.Packages, id)
	if b.keepStaging {
		mgr = workspace.NewKeepingManager(b.cfg.Paths.Packages, id)
	}
	err = workspace.WithStaging(mgr, func(staging string) error {
		return b.runStaged(ctx, rep, id, staging, opts)
	})
	if err != nil {
		return err
	}

	return b.stage(ctx, rep, StageStatic, func(context.Context) error {
		_, err := sitecopy.Copy(b.cfg.Paths.Src, out, b.cfg.Build.CopyPatterns...)
		return err
	})
}

func (b *Builder) runStaged(ctx context.Context, rep *Report, id, staging string, opts Options) error {
	err := b.stage(ctx, rep, StageFetch, func(ctx context.Context) error {
		res, err := b.fetcher.Fetch(ctx, fetch.Request{
			PackageName:    id,
			RepositoryName: id,
			Tag:            opts.Tag,
			Version:        opts.Version,
		})
		if res != nil {
			rep.URL, rep.Tag, rep.AlreadyPresent = res.URL, res.Tag, res.AlreadyPresent
		}
		switch {
		case err != nil:
			b.recorder.IncFetchOutcome(metrics.FetchFailed)
			return err
		case res.AlreadyPresent:
			b.recorder.IncFetchOutcome(metrics.FetchAlreadyPresent)
		default:
			b.recorder.IncFetchOutcome(metrics.FetchCloned)
		}
		if commit, err := b.headCommit(staging); err == nil {
			rep.Commit = commit
			observability.DebugContext(ctx, "Resolved staged commit", logfields.Commit(commit))
		} else {
			observability.DebugContext(ctx, "Could not resolve staged commit", logfields.Error(err))
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := b.stage(ctx, rep, StageRelocateDocs, func(context.Context) error {
		return b.relocator.RelocateDocs(id)
	}); err != nil {
		return err
	}

	if err := b.stage(ctx, rep, StageRedirects, func(ctx context.Context) error {
		return b.links.GenerateLinks(ctx, id)
	}); err != nil {
		return err
	}

	if err := b.stage(ctx, rep, StageRelocateExamples, func(context.Context) error {
		return b.relocator.RelocateExamples(id)
	}); err != nil {
		return err
	}

	if !b.cfg.Build.ReadmeEnabled() {
		b.skip(rep, StageReadme)
		return nil
	}
	return b.stage(ctx, rep, StageReadme, func(context.Context) error {
		_, err := markdown.RenderFile(
			filepath.Join(staging, markdown.ReadmeFile),
			filepath.Join(b.cfg.Paths.Output, "docs", id, markdown.LandingPage),
			markdown.Options{Title: id, BaseURL: sourceTreeURL(rep.URL, rep.Tag)},
		)
		return err
	})
}

// stage runs fn as the named stage and records its result.
func (b *Builder) stage(ctx context.Context, rep *Report, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		rep.Stages = append(rep.Stages, StageResult{Name: name, Result: metrics.ResultCanceled, Err: err})
		b.recorder.IncStageResult(name, metrics.ResultCanceled)
		return err
	}

	ctx = observability.WithStage(ctx, name)
	observability.DebugContext(ctx, "Stage started")
	start := time.Now()
	err := fn(ctx)
	d := time.Since(start)

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultFailed
		if ctx.Err() != nil {
			result = metrics.ResultCanceled
		}
	}
	rep.Stages = append(rep.Stages, StageResult{Name: name, Result: result, Duration: d, Err: err})
	b.recorder.ObserveStageDuration(name, d)
	b.recorder.IncStageResult(name, result)

	if err != nil {
		observability.ErrorContext(ctx, "Stage failed", logfields.DurationMS(float64(d.Milliseconds())), logfields.Error(err))
		return err
	}
	observability.InfoContext(ctx, "Stage completed", logfields.DurationMS(float64(d.Milliseconds())))
	return nil
}

func (b *Builder) skip(rep *Report, name string) {
	rep.Stages = append(rep.Stages, StageResult{Name: name, Result: metrics.ResultSkipped})
	b.recorder.IncStageResult(name, metrics.ResultSkipped)
}

// finish completes the report and feeds the side channels. Their failures
// are logged only.
func (b *Builder) finish(ctx context.Context, rep *Report, err error) {
	rep.Duration = time.Since(rep.StartTime)
	rep.Err = err
	switch {
	case err == nil:
		rep.Status = StatusSuccess
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		rep.Status = StatusCanceled
	default:
		rep.Status = StatusFailed
	}

	b.recorder.IncBuildOutcome(rep.outcomeLabel())
	b.recorder.ObserveBuildDuration(rep.Duration)

	if b.history != nil {
		if herr := b.history.Append(context.WithoutCancel(ctx), rep.HistoryRecord()); herr != nil {
			observability.WarnContext(ctx, "Failed to record build history", logfields.Error(herr))
		}
	}

	evt := events.Event{
		Type:       events.TypeBuildSucceeded,
		BuildID:    rep.BuildID,
		Module:     rep.Module,
		URL:        rep.URL,
		Tag:        rep.Tag,
		Commit:     rep.Commit,
		DurationMS: rep.Duration.Milliseconds(),
		Timestamp:  time.Now().UTC(),
	}
	if err != nil {
		evt.Type = events.TypeBuildFailed
		evt.Error = err.Error()
	}
	if perr := b.publisher.Publish(context.WithoutCancel(ctx), evt); perr != nil {
		observability.WarnContext(ctx, "Failed to publish build event", logfields.Error(perr))
	}

	attrs := []slog.Attr{slog.String("status", string(rep.Status)), logfields.DurationMS(float64(rep.Duration.Milliseconds()))}
	if err != nil {
		observability.ErrorContext(ctx, "Build failed", append(attrs, logfields.Error(err))...)
		return
	}
	observability.InfoContext(ctx, "Build completed", attrs...)
}

func prepareOutput(out string) error {
	for _, dir := range []string{filepath.Join(out, "docs"), filepath.Join(out, "examples")} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.IOError("failed to create output directory").
				WithCause(err).
				WithContext("path", dir).
				Build()
		}
	}
	return nil
}

// sourceTreeURL returns the browsable root of the cloned revision, used to
// resolve relative README links.
func sourceTreeURL(cloneURL, tag string) string {
	if cloneURL == "" {
		return ""
	}
	base, _, _ := strings.Cut(cloneURL, "#")
	ref := tag
	if ref == "" {
		ref = "HEAD"
	}
	return strings.TrimSuffix(base, ".git") + "/blob/" + ref + "/"
}
