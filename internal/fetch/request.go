package fetch

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Masterminds/semver/v3"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Request identifies one repository to fetch. Empty strings mean "not set".
type Request struct {
	PackageName    string
	RepositoryName string
	Tag            string
	Version        string
}

// Source is the hosting location repositories are cloned from.
type Source struct {
	Scheme string
	Host   string
	Owner  string
}

// Validate checks the required fields and the tag/version exclusivity.
func (r Request) Validate() error {
	if strings.TrimSpace(r.PackageName) == "" {
		return errors.ValidationError("option packageName must be provided").Build()
	}
	if strings.TrimSpace(r.RepositoryName) == "" {
		return errors.ValidationError("option repositoryName must be provided").
			WithContext("package", r.PackageName).
			Build()
	}
	if r.Tag != "" && r.Version != "" {
		return errors.ValidationError("options tag and version are incompatible; keep one and remove the other").
			WithContext("tag", r.Tag).
			WithContext("version", r.Version).
			Build()
	}
	return nil
}

// ResolveTag returns the git tag the request pins, or "" for the default branch.
// A version is normalized to "v<version>". One leading "v" on the version is
// dropped first, so "v1.2.3" and "1.2.3" both pin tag "v1.2.3" rather than
// "vv1.2.3".
func ResolveTag(r Request) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	if r.Version == "" {
		return r.Tag, nil
	}
	v, err := semver.StrictNewVersion(strings.TrimPrefix(r.Version, "v"))
	if err != nil {
		return "", errors.ValidationError(fmt.Sprintf("invalid version %q", r.Version)).
			WithCause(err).
			Build()
	}
	return "v" + v.String(), nil
}

// BuildURL returns <scheme>://<host>/<owner>/<repository>, with "#<tag>" appended when tag is set.
func BuildURL(src Source, repository, tag string) (*url.URL, error) {
	raw := fmt.Sprintf("%s://%s/%s/%s", src.Scheme, src.Host, src.Owner, repository)
	if tag != "" {
		raw += "#" + tag
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.ValidationError(fmt.Sprintf("invalid repository URL %q", raw)).
			WithCause(err).
			Build()
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, errors.ValidationError(fmt.Sprintf("invalid repository URL %q", raw)).
			WithContext("reason", "missing scheme or host").
			Build()
	}
	return u, nil
}
