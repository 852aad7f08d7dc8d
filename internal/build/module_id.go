package build

import (
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// NormalizeModuleID turns a raw module identifier into the form used for
// directory names and URLs. The identifier must be a single path segment.
// An identifier that is already escaped is decoded first, so normalizing
// twice yields the same result; a build hands its normalized id to the
// docs-rel-links child, which normalizes it again.
func NormalizeModuleID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if decoded, err := url.PathUnescape(id); err == nil {
		id = decoded
	}
	id = norm.NFC.String(id)
	if id == "" {
		return "", errors.ValidationError("module identifier must be provided").Build()
	}
	if id == "." || id == ".." || strings.ContainsAny(id, "/\\\x00") {
		return "", errors.ValidationError("module identifier must be a single path segment").
			WithContext("module", raw).
			Build()
	}
	return url.PathEscape(id), nil
}
