package redirect

import (
	_ "embed"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

//go:embed templates/docs-rel-link.html
var defaultTemplate []byte

// DefaultTemplate returns a copy of the built-in redirect template.
func DefaultTemplate() []byte {
	return append([]byte(nil), defaultTemplate...)
}

// Options configures a Generator.
type Options struct {
	// TemplatePath selects a template file. Empty uses the built-in template.
	TemplatePath    string
	ReleaseTag      string
	DocsLinkDir     string
	ExamplesLinkDir string
}

// Generator writes redirect pages from one template.
type Generator struct {
	template []byte
	opts     Options
}

// NewGenerator loads the configured template.
func NewGenerator(opts Options) (*Generator, error) {
	tmpl, err := LoadTemplate(opts.TemplatePath)
	if err != nil {
		return nil, err
	}
	return &Generator{template: tmpl, opts: opts}, nil
}

// LoadTemplate reads and validates a template file, or returns the built-in
// template for "".
func LoadTemplate(path string) ([]byte, error) {
	if path == "" {
		return DefaultTemplate(), nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- template path is operator configuration
	if err != nil {
		return nil, errors.TemplateError("failed to read redirect template").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	if err := ValidateTemplate(data); err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	return data, nil
}

// Generate renders p and writes it to <outputDir>/<p.DirectoryName>/index.html.
func (g *Generator) Generate(outputDir string, p Page) (string, error) {
	if p.ReleaseTag == "" {
		p.ReleaseTag = g.opts.ReleaseTag
	}
	out, err := Render(g.template, p)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(outputDir, p.DirectoryName)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", errors.IOError("failed to create redirect directory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	target := filepath.Join(dir, "index.html")
	if err := os.WriteFile(target, out, 0o644); err != nil { // #nosec G306 -- published site content
		return "", errors.IOError("failed to write redirect page").
			WithCause(err).
			WithContext("path", target).
			Build()
	}
	slog.Debug("Wrote redirect page", logfields.Path(target), logfields.Module(p.ModuleBaseName))
	return target, nil
}

// ModuleDir is the directory a module's redirect pages are written under.
func ModuleDir(outputRoot, id string) string {
	return filepath.Join(outputRoot, "docs", id)
}

// GenerateModule writes the "docs" and "examples" pages for module id under
// <outputRoot>/docs/<id> and returns the written paths.
func (g *Generator) GenerateModule(outputRoot, id string) ([]string, error) {
	dir := ModuleDir(outputRoot, id)
	pages := []Page{
		{ModuleBaseName: id, DirectoryName: "docs", LinkDirectoryName: g.opts.DocsLinkDir},
		{ModuleBaseName: id, DirectoryName: "examples", LinkDirectoryName: g.opts.ExamplesLinkDir},
	}
	written := make([]string, 0, len(pages))
	for _, p := range pages {
		path, err := g.Generate(dir, p)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	slog.Info("Generated redirect pages", logfields.Module(id), logfields.Path(dir))
	return written, nil
}
