package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// EnvLogLevel overrides the log level (debug, info, warn, error).
const EnvLogLevel = "DOCSITE_LOG_LEVEL"

// Global carries process-wide state into every command.
type Global struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docsite.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`
	Dir     string           `short:"C" name:"dir" help:"Run as if started in this directory" placeholder:"DIR"`

	Build        BuildCmd        `cmd:"" help:"Build the documentation of one module into the output tree"`
	DocsRelLinks DocsRelLinksCmd `cmd:"" name:"docs-rel-links" help:"Write the redirect pages of one module"`
	Clean        CleanCmd        `cmd:"" help:"Remove the output and staging trees"`
	History      HistoryCmd      `cmd:"" help:"List recorded builds"`
	Daemon       DaemonCmd       `cmd:"" help:"Rebuild configured modules on a schedule"`
	Init         InitCmd         `cmd:"" help:"Write an example configuration file"`

	stderr io.Writer
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	out := c.stderr
	if out == nil {
		out = os.Stderr
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)})))

	if c.Dir != "" {
		if err := os.Chdir(c.Dir); err != nil {
			return errors.IOError("cannot change working directory").
				WithCause(err).
				WithContext("path", c.Dir).
				Build()
		}
		slog.Debug("Changed working directory", "path", c.Dir)
	}
	return nil
}

// parseLogLevel returns Debug for --verbose, else the level named by
// DOCSITE_LOG_LEVEL, else Info.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadConfig loads the configuration named by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.Config)
}

// childArgs are the global flags a spawned docs-rel-links needs to see the
// same configuration as this process.
func (c *CLI) childArgs() []string {
	args := []string{"--config", c.Config}
	if c.Verbose {
		args = append(args, "--verbose")
	}
	return args
}
