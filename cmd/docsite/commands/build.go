package commands

import (
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docsite/internal/build"
	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/fetch"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/process"
	"git.home.luguber.info/inful/docsite/internal/redirect"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Module      string `arg:"" name:"module" help:"Module identifier; also the repository and package name"`
	Tag         string `short:"t" help:"Git tag or branch to clone"`
	Semver      string `short:"s" name:"semver" help:"Semantic version to clone; resolves to tag v<version>"`
	Output      string `short:"o" help:"Output directory (overrides paths.output)"`
	KeepStaging bool   `name:"keep-staging" help:"Leave the staging clone in place for inspection"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Paths.Output = b.Output
	}

	svc := openServices(cfg)
	defer svc.Close()

	builder, err := newBuilder(cfg, root, b.Output)
	if err != nil {
		return err
	}
	builder.WithRecorder(svc.recorder).
		WithHistory(svc.historyAppender()).
		WithPublisher(svc.publisher).
		WithKeepStaging(b.KeepStaging)

	rep, runErr := builder.Run(g.Ctx, b.Module, build.Options{Tag: b.Tag, Version: b.Semver})
	svc.flushMetrics(cfg.Metrics.Textfile)
	if runErr != nil {
		return runErr
	}
	_, _ = fmt.Fprintf(g.Stdout, "Built %s into %s in %s (build %s)\n",
		rep.Module, cfg.Paths.Output, rep.Duration.Round(time.Millisecond), rep.BuildID)
	return nil
}

// newBuilder wires a Builder for cfg. outputOverride is forwarded to a
// spawned docs-rel-links so both processes write to the same tree.
func newBuilder(cfg *config.Config, root *CLI, outputOverride string) (*build.Builder, error) {
	runner := process.NewExecRunner()
	return assembleBuilder(cfg, root, outputOverride, runner, build.NewCloner(cfg.Git, runner, root.Verbose))
}

func assembleBuilder(cfg *config.Config, root *CLI, outputOverride string, runner process.Runner, cloner fetch.Cloner) (*build.Builder, error) {
	var links build.LinkGenerator
	if cfg.Build.LinksInProcess {
		gen, err := newRedirectGenerator(cfg)
		if err != nil {
			return nil, err
		}
		links = build.InProcessLinks{Generator: gen, OutputRoot: cfg.Paths.Output}
	} else {
		args := root.childArgs()
		sub, err := build.NewSubprocessLinks(runner, args...)
		if err != nil {
			return nil, errors.InternalError("cannot locate running executable").WithCause(err).Build()
		}
		if outputOverride != "" {
			sub.SubcommandArgs = []string{"--output", outputOverride}
		}
		links = sub
		slog.Debug("Redirect pages are generated by a child process", "executable", sub.Executable)
	}
	return build.New(cfg, cloner, links), nil
}

func newRedirectGenerator(cfg *config.Config) (*redirect.Generator, error) {
	return redirect.NewGenerator(redirect.Options{
		TemplatePath:    cfg.Paths.Template,
		ReleaseTag:      cfg.Redirect.ReleaseTag,
		DocsLinkDir:     cfg.Redirect.DocsLinkDir,
		ExamplesLinkDir: cfg.Redirect.ExamplesLinkDir,
	})
}
