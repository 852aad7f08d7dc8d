package build

import (
	"context"
	"os"

	"git.home.luguber.info/inful/docsite/internal/process"
	"git.home.luguber.info/inful/docsite/internal/redirect"
)

// LinkGenerator writes the redirect pages for one module.
type LinkGenerator interface {
	GenerateLinks(ctx context.Context, id string) error
}

// InProcessLinks renders redirect pages with a generator in this process.
type InProcessLinks struct {
	Generator  *redirect.Generator
	OutputRoot string
}

func (l InProcessLinks) GenerateLinks(_ context.Context, id string) error {
	_, err := l.Generator.GenerateModule(l.OutputRoot, id)
	return err
}

// SubprocessLinks runs the docs-rel-links command of an executable, normally
// the running binary, as a child process.
type SubprocessLinks struct {
	Runner     process.Runner
	Executable string
	// GlobalArgs are passed before the subcommand, e.g. --config.
	GlobalArgs []string
	// SubcommandArgs are passed after the subcommand, before the module.
	SubcommandArgs []string
}

// NewSubprocessLinks targets the running executable.
func NewSubprocessLinks(runner process.Runner, globalArgs ...string) (*SubprocessLinks, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	return &SubprocessLinks{Runner: runner, Executable: exe, GlobalArgs: globalArgs}, nil
}

func (l *SubprocessLinks) GenerateLinks(ctx context.Context, id string) error {
	args := append([]string{}, l.GlobalArgs...)
	args = append(args, "docs-rel-links")
	args = append(args, l.SubcommandArgs...)
	args = append(args, id)
	return l.Runner.Run(ctx, process.Command{
		Name:   l.Executable,
		Args:   args,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}).Err()
}
