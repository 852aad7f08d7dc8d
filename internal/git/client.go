package git

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/docsite/internal/fetch"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/process"
)

// commandName labels outcomes produced by this backend.
const commandName = "go-git clone"

// Cloner clones repositories with go-git.
type Cloner struct {
	progress bool
}

var _ fetch.Cloner = (*Cloner)(nil)

// NewCloner returns an in-process Cloner.
func NewCloner() *Cloner { return &Cloner{} }

// WithProgress streams clone progress to stderr.
func (c *Cloner) WithProgress(enabled bool) *Cloner { c.progress = enabled; return c }

// Clone clones spec.URL into spec.Destination. A "#<tag>" fragment is
// resolved as a tag first and as a branch second.
func (c *Cloner) Clone(ctx context.Context, spec fetch.CloneSpec) process.Outcome {
	remote := spec.RemoteURL()
	refs := candidateRefs(spec.Tag())

	var err error
	for _, ref := range refs {
		err = c.cloneRef(ctx, remote, spec, ref)
		if err == nil {
			return process.Success(commandName)
		}
		if stderrors.Is(err, git.ErrRepositoryAlreadyExists) {
			slog.Debug("Repository already exists", logfields.Path(spec.Destination))
			return process.Outcome{Status: process.StatusSuccess, Command: commandName, Accepted: true}
		}
		if !isMissingRef(err) {
			break
		}
		slog.Debug("Reference not found, trying next candidate", slog.String("ref", ref.String()), logfields.URL(remote))
	}
	return process.FailedStart(commandName, ClassifyGitError(err, "clone", remote).Error())
}

func (c *Cloner) cloneRef(ctx context.Context, remote string, spec fetch.CloneSpec, ref plumbing.ReferenceName) error {
	opts := &git.CloneOptions{URL: remote, Depth: spec.Depth}
	if ref != "" {
		opts.ReferenceName = ref
		opts.SingleBranch = true
	}
	if c.progress {
		opts.Progress = os.Stderr
	}
	_, err := git.PlainCloneContext(ctx, spec.Destination, false, opts)
	return err
}

// candidateRefs lists the references a fragment may name, most specific first.
func candidateRefs(tag string) []plumbing.ReferenceName {
	if tag == "" {
		return []plumbing.ReferenceName{""}
	}
	return []plumbing.ReferenceName{
		plumbing.NewTagReferenceName(tag),
		plumbing.NewBranchReferenceName(tag),
	}
}

func isMissingRef(err error) bool {
	if stderrors.Is(err, plumbing.ErrReferenceNotFound) || stderrors.Is(err, git.NoMatchingRefSpecError{}) {
		return true
	}
	return strings.Contains(err.Error(), "couldn't find remote ref")
}
