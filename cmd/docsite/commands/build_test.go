package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/build"
	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/fetch"
	"git.home.luguber.info/inful/docsite/internal/process"
)

// inProcessRunner runs docsite child commands through Execute instead of
// spawning the binary.
type inProcessRunner struct {
	calls [][]string
}

func (r *inProcessRunner) Run(ctx context.Context, cmd process.Command) process.Outcome {
	r.calls = append(r.calls, cmd.Args)
	var stdout, stderr bytes.Buffer
	if code := Execute(ctx, cmd.Args, &stdout, &stderr); code != 0 {
		return process.FailedExit(cmd.Name, code, stderr.String())
	}
	return process.Success(cmd.Name)
}

// packageCloner writes a generated package tree instead of cloning.
type packageCloner struct{}

func (packageCloner) Clone(_ context.Context, spec fetch.CloneSpec) process.Outcome {
	files := map[string]string{
		"docs/html/index.html": "<html>api</html>",
		"examples/basic.js":    "console.log(1)",
	}
	for rel, content := range files {
		p := filepath.Join(spec.Destination, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			return process.FailedStart("clone", err.Error())
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			return process.FailedStart("clone", err.Error())
		}
	}
	return process.Success("clone")
}

func TestBuild_ChildProcessWritesRedirectsBesideDocs(t *testing.T) {
	tests := []struct {
		name   string
		module string
		dir    string
	}{
		{name: "plain id", module: "quadtree", dir: "quadtree"},
		{name: "id needing escape", module: "my module", dir: "my%20module"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			root := &CLI{Config: writeConfig(t, dir, "")}
			cfg, err := config.Load(root.Config)
			require.NoError(t, err)

			runner := &inProcessRunner{}
			b, err := assembleBuilder(cfg, root, "", runner, packageCloner{})
			require.NoError(t, err)

			_, err = b.Run(t.Context(), tt.module, build.Options{})
			require.NoError(t, err)

			moduleDir := filepath.Join(dir, "dist", "docs", tt.dir)
			assert.FileExists(t, filepath.Join(moduleDir, "index.html"))
			assert.FileExists(t, filepath.Join(moduleDir, "docs", "index.html"))
			assert.FileExists(t, filepath.Join(moduleDir, "examples", "index.html"))
			assert.FileExists(t, filepath.Join(dir, "dist", "examples", tt.dir, "basic.js"))

			entries, err := os.ReadDir(filepath.Join(dir, "dist", "docs"))
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.dir, entries[0].Name())

			require.Len(t, runner.calls, 1)
			assert.Equal(t, []string{"--config", root.Config, "docs-rel-links", tt.dir}, runner.calls[0])
		})
	}
}

func TestBuild_ChildProcessFollowsOutputOverride(t *testing.T) {
	dir := t.TempDir()
	root := &CLI{Config: writeConfig(t, dir, "")}
	cfg, err := config.Load(root.Config)
	require.NoError(t, err)
	alt := filepath.Join(dir, "public")
	cfg.Paths.Output = alt

	runner := &inProcessRunner{}
	b, err := assembleBuilder(cfg, root, alt, runner, packageCloner{})
	require.NoError(t, err)

	_, err = b.Run(t.Context(), "quadtree", build.Options{})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(alt, "docs", "quadtree", "index.html"))
	assert.FileExists(t, filepath.Join(alt, "docs", "quadtree", "docs", "index.html"))
	assert.NoDirExists(t, filepath.Join(dir, "dist"))
}

func TestDocsRelLinks_AcceptsNormalizedID(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "")

	code, _, stderr := run(t, "--config", cfg, "docs-rel-links", "my%20module")
	require.Equal(t, 0, code, stderr)
	assert.FileExists(t, filepath.Join(dir, "dist", "docs", "my%20module", "docs", "index.html"))
	assert.NoDirExists(t, filepath.Join(dir, "dist", "docs", "my%2520module"))
}
