package git

import (
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// ClassifyGitError translates go-git errors into ClassifiedErrors.
func ClassifyGitError(err error, op string, url string) error {
	if err == nil {
		return nil
	}

	// Already classified
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	l := strings.ToLower(err.Error())

	builder := errors.GitError("git operation failed").
		WithCause(err).
		WithContext("op", op).
		WithContext("url", url)

	switch {
	case strings.Contains(l, "authentication required") || strings.Contains(l, "authentication failed") || strings.Contains(l, "invalid credentials"):
		builder.UserAction()
	case strings.Contains(l, "repository not found") || strings.Contains(l, "not found") || strings.Contains(l, "does not exist"):
		builder.WithCategory(errors.CategoryNotFound).UserAction()
	case strings.Contains(l, "connection reset") || strings.Contains(l, "timeout") || strings.Contains(l, "no such host") || strings.Contains(l, "no route to host"):
		builder.WithCategory(errors.CategoryNetwork)
	case strings.Contains(l, "unsupported protocol") || strings.Contains(l, "protocol not supported"):
		builder.WithCategory(errors.CategoryConfig).UserAction()
	}

	return builder.Build()
}
