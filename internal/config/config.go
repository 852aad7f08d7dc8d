package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "docsite.yaml"

// Config represents the application configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Paths    PathsConfig    `yaml:"paths"`
	Git      GitConfig      `yaml:"git"`
	Redirect RedirectConfig `yaml:"redirect"`
	Build    BuildConfig    `yaml:"build"`
	History  HistoryConfig  `yaml:"history"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Events   EventsConfig   `yaml:"events"`
	Daemon   DaemonConfig   `yaml:"daemon"`
}

// SourceConfig describes where package repositories are hosted.
// Clone URLs are <scheme>://<host>/<owner>/<repository>.
type SourceConfig struct {
	Scheme string `yaml:"scheme,omitempty"`
	Host   string `yaml:"host"`
	Owner  string `yaml:"owner"`
}

// PathsConfig holds the directories the build reads from and writes to.
type PathsConfig struct {
	Packages string `yaml:"packages"`           // staging tree, one subdirectory per module
	Output   string `yaml:"output"`             // output tree intended for publication
	Src      string `yaml:"src,omitempty"`      // static site pages copied into the output tree
	Template string `yaml:"template,omitempty"` // redirect page template; empty uses the built-in one
}

// GitBackend selects how repositories are cloned.
type GitBackend string

const (
	GitBackendExec  GitBackend = "exec"  // spawn the git binary
	GitBackendGoGit GitBackend = "gogit" // clone in-process with go-git
)

// GitConfig configures the clone step.
type GitConfig struct {
	Backend GitBackend `yaml:"backend,omitempty"`
	Binary  string     `yaml:"binary,omitempty"`
	// AlreadyExistsCode is the exit code the git binary uses when the clone
	// destination already exists. It is mapped to success.
	AlreadyExistsCode int `yaml:"already_exists_code,omitempty"`
	Depth             int `yaml:"depth,omitempty"`
}

// RedirectConfig configures the generated redirect pages.
type RedirectConfig struct {
	ReleaseTag      string `yaml:"release_tag,omitempty"`
	DocsLinkDir     string `yaml:"docs_link_dir,omitempty"`
	ExamplesLinkDir string `yaml:"examples_link_dir,omitempty"`
}

// BuildConfig toggles optional build stages.
type BuildConfig struct {
	RenderReadme   *bool    `yaml:"render_readme,omitempty"`
	LinksInProcess bool     `yaml:"links_in_process,omitempty"`
	Overwrite      *bool    `yaml:"overwrite,omitempty"`
	CopyPatterns   []string `yaml:"copy_patterns,omitempty"`
}

// ReadmeEnabled reports whether README landing pages are rendered.
func (b BuildConfig) ReadmeEnabled() bool { return b.RenderReadme == nil || *b.RenderReadme }

// OverwriteEnabled reports whether relocation replaces an existing destination.
func (b BuildConfig) OverwriteEnabled() bool { return b.Overwrite == nil || *b.Overwrite }

// HistoryConfig configures the SQLite build ledger. Empty path disables it.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// MetricsConfig configures Prometheus export. Both empty disables metrics.
type MetricsConfig struct {
	// Textfile is written after every build in node exporter format.
	Textfile string `yaml:"textfile,omitempty"`
	// Listen serves /metrics while the daemon runs, e.g. ":9464".
	Listen string `yaml:"listen,omitempty"`
}

// Enabled reports whether any metrics export is configured.
func (m MetricsConfig) Enabled() bool { return m.Textfile != "" || m.Listen != "" }

// EventsConfig configures build notifications over NATS. Empty URL disables them.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// DaemonConfig configures scheduled rebuilds.
type DaemonConfig struct {
	Schedule      string        `yaml:"schedule,omitempty"` // cron expression
	Interval      time.Duration `yaml:"interval,omitempty"`
	Modules       []string      `yaml:"modules,omitempty"`
	WatchTemplate bool          `yaml:"watch_template,omitempty"`
	// RunOnStart rebuilds once as soon as the daemon starts.
	RunOnStart bool `yaml:"run_on_start,omitempty"`
}

// Load reads the configuration file at configPath.
// A missing file is not an error: the defaults are returned instead.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, errors.ConfigError("failed to parse configuration").
				WithCause(err).
				WithContext("path", configPath).
				Build()
		}
	case os.IsNotExist(err):
		slog.Debug("Configuration file not found, using defaults", "path", configPath)
	default:
		return nil, errors.ConfigError("failed to read configuration").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}

	applyEnvOverrides(cfg)
	if err := applyDefaults(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	// The built-in appliers never fail on an empty config.
	_ = applyDefaults(cfg)
	return cfg
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).Build()
	}

	example := Default()
	example.History.Path = "docsite-history.db"
	example.Daemon.Schedule = "0 3 * * *"
	example.Daemon.Modules = []string{"example-module"}

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.IOError("failed to write config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	return nil
}
