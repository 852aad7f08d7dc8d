package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Validate checks the configuration for values no build could succeed with.
func (c *Config) Validate() error {
	var problems []string

	if c.Source.Scheme == "" || c.Source.Host == "" || c.Source.Owner == "" {
		problems = append(problems, "source.scheme, source.host and source.owner must be set")
	}
	if strings.ContainsAny(c.Source.Host, "/#?") {
		problems = append(problems, fmt.Sprintf("source.host %q must be a bare host name", c.Source.Host))
	}
	if strings.ContainsAny(c.Source.Owner, "/#?") {
		problems = append(problems, fmt.Sprintf("source.owner %q must be a single path segment", c.Source.Owner))
	}

	switch c.Git.Backend {
	case GitBackendExec, GitBackendGoGit:
	default:
		problems = append(problems, fmt.Sprintf("git.backend %q is not one of exec, gogit", c.Git.Backend))
	}
	if c.Git.AlreadyExistsCode < 1 || c.Git.AlreadyExistsCode > 255 {
		problems = append(problems, fmt.Sprintf("git.already_exists_code %d is outside 1..255", c.Git.AlreadyExistsCode))
	}

	if filepath.Clean(c.Paths.Packages) == filepath.Clean(c.Paths.Output) {
		problems = append(problems, "paths.packages and paths.output must differ")
	}

	if c.Daemon.Schedule != "" && c.Daemon.Interval > 0 {
		problems = append(problems, "daemon.schedule and daemon.interval are mutually exclusive")
	}
	if c.Daemon.Interval < 0 {
		problems = append(problems, "daemon.interval must not be negative")
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.ConfigError("invalid configuration").
		WithCause(fmt.Errorf("%s", strings.Join(problems, "; "))).
		WithContext("problems", len(problems)).
		Build()
}
