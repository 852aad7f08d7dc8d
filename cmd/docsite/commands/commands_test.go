package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a configuration rooted at dir and returns its path.
func writeConfig(t *testing.T, dir, extra string) string {
	t.Helper()
	body := "paths:\n" +
		"  packages: " + filepath.Join(dir, "packages") + "\n" +
		"  output: " + filepath.Join(dir, "dist") + "\n" +
		"  src: " + filepath.Join(dir, "src") + "\n" +
		extra
	path := filepath.Join(dir, "docsite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestVersionFlag(t *testing.T) {
	code, out, _ := run(t, "--version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "docsite")
}

func TestBuildRequiresModule(t *testing.T) {
	code, _, stderr := run(t, "build")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "module")
}

func TestBuildRejectsTagAndSemver(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "build:\n  links_in_process: true\n")

	code, _, _ := run(t, "--config", cfg, "build", "quadtree", "--tag", "main", "--semver", "1.2.3")
	assert.Equal(t, 2, code)
	assert.NoDirExists(t, filepath.Join(dir, "packages", "quadtree"))
}

func TestBuildRejectsBadModuleID(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "")

	code, _, _ := run(t, "--config", cfg, "build", "../escape")
	assert.Equal(t, 2, code)
}

func TestDocsRelLinksWritesPages(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "redirect:\n  release_tag: stable\n")

	code, out, stderr := run(t, "--config", cfg, "docs-rel-links", "quadtree")
	require.Equal(t, 0, code, stderr)

	docs := filepath.Join(dir, "dist", "docs", "quadtree", "docs", "index.html")
	examples := filepath.Join(dir, "dist", "docs", "quadtree", "examples", "index.html")
	assert.FileExists(t, docs)
	assert.FileExists(t, examples)
	assert.Contains(t, out, docs)

	data, err := os.ReadFile(docs)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"stable"`)
	assert.Contains(t, string(data), `"docs/md"`)
}

func TestDocsRelLinksOutputOverride(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "")
	alt := filepath.Join(dir, "public")

	code, _, stderr := run(t, "--config", cfg, "docs-rel-links", "quadtree", "--output", alt)
	require.Equal(t, 0, code, stderr)
	assert.FileExists(t, filepath.Join(alt, "docs", "quadtree", "examples", "index.html"))
	assert.NoDirExists(t, filepath.Join(dir, "dist"))
}

func TestCleanRemovesTrees(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "")
	for _, sub := range []string{"dist/docs/a", "packages/a/docs"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o750))
	}

	code, _, _ := run(t, "--config", cfg, "clean")
	assert.Equal(t, 0, code)
	assert.NoDirExists(t, filepath.Join(dir, "dist"))
	assert.NoDirExists(t, filepath.Join(dir, "packages"))
}

func TestCleanSucceedsWhenNothingExists(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "")

	code, _, _ := run(t, "--config", cfg, "clean")
	assert.Equal(t, 0, code)
}

func TestCleanIgnoresBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.MkdirAll("dist", 0o750))
	require.NoError(t, os.WriteFile("broken.yaml", []byte("paths: [unterminated"), 0o600))

	code, _, _ := run(t, "--config", "broken.yaml", "clean")
	assert.Equal(t, 0, code)
	assert.NoDirExists(t, filepath.Join(dir, "dist"))
}

func TestHistoryRequiresPath(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "")

	code, _, stderr := run(t, "--config", cfg, "history")
	assert.Equal(t, 7, code)
	assert.Contains(t, stderr, "history.path")
}

func TestHistoryEmptyLedger(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "history:\n  path: "+filepath.Join(dir, "history.db")+"\n")

	code, out, stderr := run(t, "--config", cfg, "history")
	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasPrefix(out, "STARTED"))
}

func TestInitWritesConfigOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docsite.yaml")

	code, _, stderr := run(t, "--config", path, "init")
	require.Equal(t, 0, code, stderr)
	assert.FileExists(t, path)

	code, _, _ = run(t, "--config", path, "init")
	assert.Equal(t, 7, code)

	code, _, _ = run(t, "--config", path, "init", "--force")
	assert.Equal(t, 0, code)
}

func TestChildArgsForwardConfigAndVerbosity(t *testing.T) {
	c := &CLI{Config: "site.yaml", Verbose: true}
	assert.Equal(t, []string{"--config", "site.yaml", "--verbose"}, c.childArgs())
}
