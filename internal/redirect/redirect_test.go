package redirect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

const testTemplate = `<html><body><script>
var m = $_MODULE_BASE_NAME; var d = $_DIRECTORY_NAME;
var l = $_LINK_DIRECTORY_NAME; var t = $_GIT_REPOSITORY_TAG;
</script></body></html>`

func assertNoTokens(t *testing.T, content string) {
	t.Helper()
	for _, tok := range Tokens {
		assert.NotContains(t, content, tok)
	}
}

func TestRender_SubstitutesJSONStrings(t *testing.T) {
	out, err := Render([]byte(testTemplate), Page{
		ModuleBaseName:    "quadtree",
		DirectoryName:     "docs",
		LinkDirectoryName: "docs/md",
		ReleaseTag:        "channel/release",
	})
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `var m = "quadtree";`)
	assert.Contains(t, s, `var d = "docs";`)
	assert.Contains(t, s, `var l = "docs/md";`)
	assert.Contains(t, s, `var t = "channel/release";`)
	assertNoTokens(t, s)
}

func TestRender_LinkDirectoryDefaultsToDirectory(t *testing.T) {
	out, err := Render([]byte(testTemplate), Page{ModuleBaseName: "x", DirectoryName: "examples"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `var l = "examples";`)
}

func TestRender_QuotesAreEncoded(t *testing.T) {
	out, err := Render([]byte(testTemplate), Page{ModuleBaseName: `a"b`, DirectoryName: "docs"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `var m = "a\"b";`)
}

func TestRender_SinglePass(t *testing.T) {
	out, err := Render([]byte(testTemplate), Page{ModuleBaseName: "$_DIRECTORY_NAME", DirectoryName: "docs"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `var m = "$_DIRECTORY_NAME";`)
}

func TestRender_TemplateWithoutTokens(t *testing.T) {
	out, err := Render([]byte("<p>static</p>"), Page{ModuleBaseName: "x", DirectoryName: "docs"})
	require.NoError(t, err)
	assert.Equal(t, "<p>static</p>", string(out))
}

func TestGenerate_WritesIndex(t *testing.T) {
	tmplPath := filepath.Join(t.TempDir(), "docs-rel-link.html")
	require.NoError(t, os.WriteFile(tmplPath, []byte(testTemplate), 0o600))
	g, err := NewGenerator(Options{TemplatePath: tmplPath, ReleaseTag: "channel/release"})
	require.NoError(t, err)

	out := t.TempDir()
	path, err := g.Generate(out, Page{ModuleBaseName: "x", DirectoryName: "docs"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "docs", "index.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `"x"`)
	assert.Contains(t, s, `"docs"`)
	assert.Contains(t, s, `"channel/release"`)
	assertNoTokens(t, s)
}

func TestGenerateModule_DefaultTemplate(t *testing.T) {
	g, err := NewGenerator(Options{ReleaseTag: "channel/release", DocsLinkDir: "docs/md", ExamplesLinkDir: "examples"})
	require.NoError(t, err)

	root := t.TempDir()
	paths, err := g.GenerateModule(root, "quadtree")
	require.NoError(t, err)
	require.Len(t, paths, 2)

	docs, err := os.ReadFile(filepath.Join(root, "docs", "quadtree", "docs", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(docs), `"docs/md"`)
	assertNoTokens(t, string(docs))

	examples, err := os.ReadFile(filepath.Join(root, "docs", "quadtree", "examples", "index.html"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(examples), `var linkDirectoryName = "examples";`))
}

func TestNewGenerator_MissingTemplate(t *testing.T) {
	_, err := NewGenerator(Options{TemplatePath: filepath.Join(t.TempDir(), "missing.html")})
	require.Error(t, err)
}

func TestValidateTemplate(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		wantErr string
	}{
		{name: "built-in template", tmpl: string(DefaultTemplate())},
		{name: "test template", tmpl: testTemplate},
		{name: "no placeholders", tmpl: "<p>static</p>"},
		{name: "placeholder in body text", tmpl: "<p>$_MODULE_BASE_NAME</p>", wantErr: "found in text"},
		{name: "placeholder in attribute", tmpl: `<a href="$_GIT_REPOSITORY_TAG">x</a>`, wantErr: "<a> tag"},
		{name: "placeholder in comment", tmpl: "<!-- $_DIRECTORY_NAME -->", wantErr: "markup"},
		{name: "placeholder in style", tmpl: "<style>p{content:$_DIRECTORY_NAME}</style>", wantErr: "found in text"},
		{name: "quoted placeholder", tmpl: `<script>var m = "$_MODULE_BASE_NAME";</script>`, wantErr: "already quoted"},
		{name: "unterminated script", tmpl: "<script>var m = $_MODULE_BASE_NAME;", wantErr: "unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTemplate([]byte(tt.tmpl))
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.HasCategory(err, errors.CategoryTemplate))
		})
	}
}

func TestValidateTemplate_ReportsLine(t *testing.T) {
	err := ValidateTemplate([]byte("<html>\n<body>\n<p>$_MODULE_BASE_NAME</p>\n</body>"))
	require.Error(t, err)
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	line, _ := ce.Context().Get("line")
	assert.Equal(t, 3, line)
}

func TestNewGenerator_RejectsInvalidTemplate(t *testing.T) {
	tmplPath := filepath.Join(t.TempDir(), "docs-rel-link.html")
	require.NoError(t, os.WriteFile(tmplPath, []byte(`<h1>$_MODULE_BASE_NAME</h1>`), 0o600))

	_, err := NewGenerator(Options{TemplatePath: tmplPath})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryTemplate))
	assert.Contains(t, err.Error(), "$_MODULE_BASE_NAME")
}
