package git

import (
	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// HeadCommit returns the commit hash HEAD points to in the repository at repoPath.
func HeadCommit(repoPath string) (string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", errors.GitError("failed to open repository").
			WithCause(err).
			WithContext("path", repoPath).
			Build()
	}
	ref, err := repo.Head()
	if err != nil {
		return "", errors.GitError("failed to resolve HEAD").
			WithCause(err).
			WithContext("path", repoPath).
			Build()
	}
	return ref.Hash().String(), nil
}
