package fetch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/process"
)

// CLICloner clones by spawning the git binary.
type CLICloner struct {
	runner process.Runner
	binary string
	// alreadyExists is the exit code git uses when the destination exists.
	// It is treated as success so re-fetching is idempotent.
	alreadyExists int
}

// NewCLICloner returns a Cloner running binary through runner.
func NewCLICloner(runner process.Runner, binary string, alreadyExistsCode int) *CLICloner {
	return &CLICloner{runner: runner, binary: binary, alreadyExists: alreadyExistsCode}
}

// Args returns the git arguments for spec.
func (c *CLICloner) Args(spec CloneSpec) []string {
	args := []string{"clone"}
	if spec.Depth > 0 {
		args = append(args, "--depth", strconv.Itoa(spec.Depth))
	}
	if tag := spec.Tag(); tag != "" {
		args = append(args, "--branch", tag)
	}
	return append(args, spec.RemoteURL(), spec.Destination)
}

// Clone runs git clone and maps the already-exists exit code to success.
// git also exits 128 for unrelated fatal errors, so an accepted exit without a
// repository at the destination is logged as a warning.
func (c *CLICloner) Clone(ctx context.Context, spec CloneSpec) process.Outcome {
	out := c.runner.Run(ctx, process.Command{
		Name:            c.binary,
		Args:            c.Args(spec),
		AcceptExitCodes: []int{c.alreadyExists},
		Stderr:          os.Stderr,
	})
	if out.Accepted {
		if _, err := os.Stat(filepath.Join(spec.Destination, ".git")); err != nil {
			slog.Warn("git exit code treated as already-exists but destination holds no repository",
				logfields.ExitCode(out.ExitCode), logfields.Path(spec.Destination))
		}
	}
	return out
}
