package markdown

import (
	"bytes"
	"html"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// ReadmeFile is the file rendered into a module's landing page.
const ReadmeFile = "README.md"

// LandingPage is the file name the rendered README is written to.
const LandingPage = "readme.html"

// Options controls rendering.
type Options struct {
	// Title is used for the page <title>.
	Title string
	// BaseURL resolves relative links. Relative links are left untouched when empty.
	BaseURL string
}

// Result is a rendered page and the links that were rewritten in it.
type Result struct {
	HTML  []byte
	Links []Link
}

// Render converts GitHub-flavoured Markdown to a standalone HTML page.
func Render(source []byte, opts Options) (*Result, error) {
	rw := &linkRewriter{}
	if opts.BaseURL != "" {
		base, err := url.Parse(opts.BaseURL)
		if err != nil {
			return nil, errors.ValidationError("invalid base URL").WithCause(err).WithContext("url", opts.BaseURL).Build()
		}
		rw.base = base
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(rw, 100)),
		),
	)

	var body bytes.Buffer
	if err := md.Convert(source, &body); err != nil {
		return nil, errors.TemplateError("failed to render markdown").WithCause(err).Build()
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>")
	page.WriteString(html.EscapeString(opts.Title))
	page.WriteString("</title>\n</head>\n<body>\n<main>\n")
	page.Write(body.Bytes())
	page.WriteString("</main>\n</body>\n</html>\n")

	return &Result{HTML: page.Bytes(), Links: rw.rewritten}, nil
}

// RenderFile renders the Markdown file at src into dst. A missing src is not
// an error; the returned bool reports whether a page was written.
func RenderFile(src, dst string, opts Options) (bool, error) {
	source, err := os.ReadFile(src) // #nosec G304 -- path is inside the staging clone
	if os.IsNotExist(err) {
		slog.Debug("No README to render", logfields.Path(src))
		return false, nil
	}
	if err != nil {
		return false, errors.IOError("failed to read markdown").WithCause(err).WithContext("path", src).Build()
	}

	res, err := Render(source, opts)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return false, errors.IOError("failed to create output directory").WithCause(err).WithContext("path", filepath.Dir(dst)).Build()
	}
	if err := os.WriteFile(dst, res.HTML, 0o644); err != nil { // #nosec G306 -- published site content
		return false, errors.IOError("failed to write rendered page").WithCause(err).WithContext("path", dst).Build()
	}
	slog.Info("Rendered README", logfields.Path(dst), slog.Int("links_rewritten", len(res.Links)))
	return true, nil
}
