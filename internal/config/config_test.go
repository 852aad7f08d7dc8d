package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docsite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultScheme, cfg.Source.Scheme)
	assert.Equal(t, DefaultHost, cfg.Source.Host)
	assert.Equal(t, DefaultOwner, cfg.Source.Owner)
	assert.Equal(t, DefaultPackagesDir, cfg.Paths.Packages)
	assert.Equal(t, DefaultOutputDir, cfg.Paths.Output)
	assert.Equal(t, GitBackendExec, cfg.Git.Backend)
	assert.Equal(t, 128, cfg.Git.AlreadyExistsCode)
	assert.Equal(t, "channel/release", cfg.Redirect.ReleaseTag)
	assert.Equal(t, "docs/md", cfg.Redirect.DocsLinkDir)
	assert.Equal(t, []string{"**/*.html"}, cfg.Build.CopyPatterns)
	assert.True(t, cfg.Build.ReadmeEnabled())
	assert.True(t, cfg.Build.OverwriteEnabled())
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
source:
  host: git.example.org
  owner: acme
paths:
  packages: staging
  output: public
git:
  backend: gogit
  depth: 1
build:
  render_readme: false
daemon:
  interval: 15m
  modules: [alpha, beta]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "git.example.org", cfg.Source.Host)
	assert.Equal(t, "acme", cfg.Source.Owner)
	assert.Equal(t, "staging", cfg.Paths.Packages)
	assert.Equal(t, "public", cfg.Paths.Output)
	assert.Equal(t, GitBackendGoGit, cfg.Git.Backend)
	assert.Equal(t, 1, cfg.Git.Depth)
	assert.False(t, cfg.Build.ReadmeEnabled())
	assert.Equal(t, 15*time.Minute, cfg.Daemon.Interval)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Daemon.Modules)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("DOCSITE_TEST_OWNER", "from-env")
	path := writeConfig(t, "source:\n  owner: ${DOCSITE_TEST_OWNER}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Source.Owner)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvSourceHost, "codeberg.org")
	t.Setenv(EnvOutputDir, "out")
	path := writeConfig(t, "source:\n  host: github.com\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "codeberg.org", cfg.Source.Host)
	assert.Equal(t, "out", cfg.Paths.Output)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown backend":        "git:\n  backend: svn\n",
		"sentinel out of range":  "git:\n  already_exists_code: 300\n",
		"same staging as output": "paths:\n  packages: dist\n  output: dist\n",
		"owner with slash":       "source:\n  owner: a/b\n",
		"schedule and interval":  "daemon:\n  schedule: '@daily'\n  interval: 1h\n",
		"malformed yaml":         "source: [\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig), "got %v", err)
		})
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsite.yaml")

	require.NoError(t, Init(path, false))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"example-module"}, cfg.Daemon.Modules)

	err = Init(path, false)
	require.Error(t, err)
	require.NoError(t, Init(path, true))
}
