package markdown

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_GFM(t *testing.T) {
	src := []byte("# Quadtree\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n~~old~~\n")
	res, err := Render(src, Options{Title: "quadtree"})
	require.NoError(t, err)

	s := string(res.HTML)
	assert.Contains(t, s, "<title>quadtree</title>")
	assert.Contains(t, s, `<h1 id="quadtree">Quadtree</h1>`)
	assert.Contains(t, s, "<table>")
	assert.Contains(t, s, "<del>old</del>")
}

func TestRender_EscapesTitle(t *testing.T) {
	res, err := Render([]byte("x"), Options{Title: "<b>"})
	require.NoError(t, err)
	assert.Contains(t, string(res.HTML), "<title>&lt;b&gt;</title>")
}

func TestRender_RewritesRelativeLinks(t *testing.T) {
	src := []byte("See [API](docs/md/api.md), ![logo](img/logo.png), [site](https://example.com) and [top](#usage).\n")
	res, err := Render(src, Options{BaseURL: "https://github.com/voidvoxel/quadtree/blob/v1.2.3/"})
	require.NoError(t, err)

	s := string(res.HTML)
	assert.Contains(t, s, `href="https://github.com/voidvoxel/quadtree/blob/v1.2.3/docs/md/api.md"`)
	assert.Contains(t, s, `src="https://github.com/voidvoxel/quadtree/blob/v1.2.3/img/logo.png"`)
	assert.Contains(t, s, `href="https://example.com"`)
	assert.Contains(t, s, `href="#usage"`)

	require.Len(t, res.Links, 2)
	assert.Equal(t, LinkKindInline, res.Links[0].Kind)
	assert.Equal(t, "docs/md/api.md", res.Links[0].Original)
	assert.Equal(t, LinkKindImage, res.Links[1].Kind)
}

func TestRender_NoBaseLeavesLinks(t *testing.T) {
	res, err := Render([]byte("[API](api.md)"), Options{})
	require.NoError(t, err)
	assert.Contains(t, string(res.HTML), `href="api.md"`)
	assert.Empty(t, res.Links)
}

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "quadtree", ReadmeFile)
	dst := filepath.Join(dir, "dist", "docs", "quadtree", LandingPage)

	written, err := RenderFile(src, dst, Options{})
	require.NoError(t, err)
	assert.False(t, written)
	assert.NoFileExists(t, dst)

	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o750))
	require.NoError(t, os.WriteFile(src, []byte("# Hello\n"), 0o600))

	written, err = RenderFile(src, dst, Options{Title: "quadtree"})
	require.NoError(t, err)
	assert.True(t, written)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Hello</h1>")
}
