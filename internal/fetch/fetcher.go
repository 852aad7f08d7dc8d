package fetch

import (
	"context"
	"log/slog"
	"net/url"
	"path/filepath"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/process"
)

// CloneSpec describes a single clone. URL may carry a "#<tag>" fragment
// selecting the tag or branch to check out.
type CloneSpec struct {
	URL         *url.URL
	Destination string
	Depth       int
}

// Tag returns the fragment-selected ref, or "".
func (s CloneSpec) Tag() string { return s.URL.Fragment }

// RemoteURL returns the clone URL without the ref fragment.
func (s CloneSpec) RemoteURL() string {
	u := *s.URL
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// Cloner clones a repository into a local directory.
// An already-populated destination must be reported as a success.
type Cloner interface {
	Clone(ctx context.Context, spec CloneSpec) process.Outcome
}

// Result describes a completed fetch.
type Result struct {
	URL         string
	Tag         string
	Destination string
	Outcome     process.Outcome
	// AlreadyPresent is set when the destination already held the repository.
	AlreadyPresent bool
}

// Fetcher validates requests and delegates clones into packagesDir.
type Fetcher struct {
	source      Source
	packagesDir string
	depth       int
	cloner      Cloner
}

// NewFetcher creates a Fetcher cloning from source into packagesDir.
func NewFetcher(source Source, packagesDir string, cloner Cloner) *Fetcher {
	return &Fetcher{source: source, packagesDir: packagesDir, cloner: cloner}
}

// WithDepth requests shallow clones of the given depth (0 clones full history).
func (f *Fetcher) WithDepth(depth int) *Fetcher { f.depth = depth; return f }

// Destination returns the staging path a package is cloned into.
func (f *Fetcher) Destination(packageName string) string {
	return filepath.Join(f.packagesDir, packageName)
}

// Fetch validates req and clones the repository into packages/<packageName>.
// Validation failures are returned before any process is spawned.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (*Result, error) {
	tag, err := ResolveTag(req)
	if err != nil {
		return nil, err
	}
	u, err := BuildURL(f.source, req.RepositoryName, tag)
	if err != nil {
		return nil, err
	}

	spec := CloneSpec{URL: u, Destination: f.Destination(req.PackageName), Depth: f.depth}
	slog.Info("Cloning repository", logfields.URL(u.String()), logfields.Tag(tag), logfields.Path(spec.Destination))

	outcome := f.cloner.Clone(ctx, spec)
	res := &Result{
		URL:            u.String(),
		Tag:            tag,
		Destination:    spec.Destination,
		Outcome:        outcome,
		AlreadyPresent: outcome.OK() && outcome.Accepted,
	}
	if err := outcome.Err(); err != nil {
		return res, err
	}
	if res.AlreadyPresent {
		slog.Info("Repository already present, skipping clone", logfields.Path(spec.Destination))
	}
	return res, nil
}
