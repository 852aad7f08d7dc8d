package process

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"slices"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// stderrTailBytes bounds how much of a failed child's stderr is kept as the failure reason.
const stderrTailBytes = 2048

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env, when non-nil, replaces the inherited environment.
	Env []string
	// AcceptExitCodes lists non-zero exit codes the caller treats as success.
	AcceptExitCodes []int
	Stdout          io.Writer
	Stderr          io.Writer
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner executes a Command and reports its Outcome.
type Runner interface {
	Run(ctx context.Context, cmd Command) Outcome
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner { return &ExecRunner{} }

// Run spawns cmd and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) Outcome {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...) //nolint:gosec // command lines are built from configuration
	c.Dir = cmd.Dir
	if cmd.Env != nil {
		c.Env = cmd.Env
	}
	c.Stdout = cmd.Stdout

	var tail tailBuffer
	if cmd.Stderr != nil {
		c.Stderr = io.MultiWriter(cmd.Stderr, &tail)
	} else {
		c.Stderr = &tail
	}

	slog.Debug("Running external process", logfields.Command(cmd.String()), logfields.Path(cmd.Dir))

	if err := c.Start(); err != nil {
		return FailedStart(cmd.Name, err.Error())
	}
	return classifyWait(cmd, c.Wait(), tail.String())
}

func classifyWait(cmd Command, err error, stderr string) Outcome {
	if err == nil {
		return Success(cmd.Name)
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return FailedStart(cmd.Name, err.Error())
	}

	code := exitErr.ExitCode()
	if code == NoExitCode {
		// Terminated by a signal, including context cancellation.
		return KilledBySignal(cmd.Name, exitErr.String())
	}
	if slices.Contains(cmd.AcceptExitCodes, code) {
		slog.Debug("External process exit code accepted", logfields.Command(cmd.Name), logfields.ExitCode(code))
		return AcceptedExit(cmd.Name, code)
	}
	reason := strings.TrimSpace(stderr)
	if reason == "" {
		reason = exitErr.Error()
	}
	return FailedExit(cmd.Name, code, reason)
}

// tailBuffer keeps the last stderrTailBytes written to it.
type tailBuffer struct {
	buf bytes.Buffer
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	t.buf.Write(p)
	if over := t.buf.Len() - stderrTailBytes; over > 0 {
		t.buf.Next(over)
	}
	return n, nil
}

func (t *tailBuffer) String() string { return t.buf.String() }
