package config

// Default values. The source host and owner are where the published packages live.
const (
	DefaultScheme            = "https"
	DefaultHost              = "github.com"
	DefaultOwner             = "voidvoxel"
	DefaultPackagesDir       = "packages"
	DefaultOutputDir         = "dist"
	DefaultSrcDir            = "src"
	DefaultGitBinary         = "git"
	DefaultAlreadyExistsCode = 128
	DefaultReleaseTag        = "channel/release"
	DefaultDocsLinkDir       = "docs/md"
	DefaultExamplesLinkDir   = "examples"
	DefaultEventsSubject     = "docsite.builds"
	DefaultCopyPattern       = "**/*.html"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

var defaultAppliers = []DefaultApplier{
	&sourceDefaults{},
	&pathsDefaults{},
	&gitDefaults{},
	&redirectDefaults{},
	&buildDefaults{},
	&eventsDefaults{},
}

func applyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

type sourceDefaults struct{}

func (sourceDefaults) Domain() string { return "source" }

func (sourceDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Source.Scheme == "" {
		cfg.Source.Scheme = DefaultScheme
	}
	if cfg.Source.Host == "" {
		cfg.Source.Host = DefaultHost
	}
	if cfg.Source.Owner == "" {
		cfg.Source.Owner = DefaultOwner
	}
	return nil
}

type pathsDefaults struct{}

func (pathsDefaults) Domain() string { return "paths" }

func (pathsDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Paths.Packages == "" {
		cfg.Paths.Packages = DefaultPackagesDir
	}
	if cfg.Paths.Output == "" {
		cfg.Paths.Output = DefaultOutputDir
	}
	if cfg.Paths.Src == "" {
		cfg.Paths.Src = DefaultSrcDir
	}
	return nil
}

type gitDefaults struct{}

func (gitDefaults) Domain() string { return "git" }

func (gitDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Git.Backend == "" {
		cfg.Git.Backend = GitBackendExec
	}
	if cfg.Git.Binary == "" {
		cfg.Git.Binary = DefaultGitBinary
	}
	if cfg.Git.AlreadyExistsCode == 0 {
		cfg.Git.AlreadyExistsCode = DefaultAlreadyExistsCode
	}
	if cfg.Git.Depth < 0 {
		cfg.Git.Depth = 0
	}
	return nil
}

type redirectDefaults struct{}

func (redirectDefaults) Domain() string { return "redirect" }

func (redirectDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Redirect.ReleaseTag == "" {
		cfg.Redirect.ReleaseTag = DefaultReleaseTag
	}
	if cfg.Redirect.DocsLinkDir == "" {
		cfg.Redirect.DocsLinkDir = DefaultDocsLinkDir
	}
	if cfg.Redirect.ExamplesLinkDir == "" {
		cfg.Redirect.ExamplesLinkDir = DefaultExamplesLinkDir
	}
	return nil
}

type buildDefaults struct{}

func (buildDefaults) Domain() string { return "build" }

func (buildDefaults) ApplyDefaults(cfg *Config) error {
	if len(cfg.Build.CopyPatterns) == 0 {
		cfg.Build.CopyPatterns = []string{DefaultCopyPattern}
	}
	return nil
}

type eventsDefaults struct{}

func (eventsDefaults) Domain() string { return "events" }

func (eventsDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Events.Subject == "" {
		cfg.Events.Subject = DefaultEventsSubject
	}
	return nil
}
