package markdown

import (
	"net/url"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

type LinkKind string

const (
	LinkKindInline LinkKind = "inline"
	LinkKindImage  LinkKind = "image"
)

// Link records one destination rewritten during rendering.
type Link struct {
	Kind     LinkKind
	Original string
	Resolved string
}

// linkRewriter resolves repository-relative link and image destinations
// against a base URL so they keep working once the page is moved out of the
// repository.
type linkRewriter struct {
	base      *url.URL
	rewritten []Link
}

func (r *linkRewriter) Transform(doc *gmast.Document, _ text.Reader, _ parser.Context) {
	if r.base == nil {
		return
	}
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Link:
			if resolved, ok := r.resolve(string(node.Destination)); ok {
				r.rewritten = append(r.rewritten, Link{Kind: LinkKindInline, Original: string(node.Destination), Resolved: resolved})
				node.Destination = []byte(resolved)
			}
		case *gmast.Image:
			if resolved, ok := r.resolve(string(node.Destination)); ok {
				r.rewritten = append(r.rewritten, Link{Kind: LinkKindImage, Original: string(node.Destination), Resolved: resolved})
				node.Destination = []byte(resolved)
			}
		}
		return gmast.WalkContinue, nil
	})
}

func (r *linkRewriter) resolve(dest string) (string, bool) {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "/") {
		return "", false
	}
	u, err := url.Parse(dest)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "", false
	}
	return r.base.ResolveReference(u).String(), true
}
