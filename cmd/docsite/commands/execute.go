package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/version"
)

// Execute parses args, runs the selected command and returns the process
// exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cli := &CLI{stderr: stderr}
	exitCode, exited := 0, false

	parser, err := kong.New(cli,
		kong.Name("docsite"),
		kong.Description("Assemble a documentation website from externally hosted package repositories."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode, exited = code, true }),
	)
	if err != nil {
		return errors.NewCLIErrorAdapter(false, slog.Default()).WithOutput(stderr).
			Report(errors.WrapError(err, errors.CategoryInternal, "invalid command definition").Build())
	}

	kctx, err := parser.Parse(args)
	if exited {
		return exitCode
	}
	if err != nil {
		parser.Errorf("%s", err)
		return errors.NewCLIErrorAdapter(false, slog.Default()).ExitCodeFor(
			errors.ValidationError(err.Error()).Build())
	}

	if err := kctx.Run(&Global{Ctx: ctx, Stdout: stdout, Stderr: stderr}, cli); err != nil {
		return errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).WithOutput(stderr).Report(err)
	}
	return 0
}
