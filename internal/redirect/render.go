package redirect

import (
	"encoding/json"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Template placeholders.
const (
	TokenModuleBaseName    = "$_MODULE_BASE_NAME"
	TokenDirectoryName     = "$_DIRECTORY_NAME"
	TokenLinkDirectoryName = "$_LINK_DIRECTORY_NAME"
	TokenReleaseTag        = "$_GIT_REPOSITORY_TAG"
)

// Tokens lists every placeholder a template may contain.
var Tokens = []string{TokenModuleBaseName, TokenDirectoryName, TokenLinkDirectoryName, TokenReleaseTag}

// Page holds the values substituted into one redirect page.
type Page struct {
	ModuleBaseName    string
	DirectoryName     string
	LinkDirectoryName string // defaults to DirectoryName
	ReleaseTag        string
}

func (p Page) linkDirectory() string {
	if p.LinkDirectoryName == "" {
		return p.DirectoryName
	}
	return p.LinkDirectoryName
}

// Render substitutes p into tmpl. Substitution is a single pass, so values
// that happen to contain a placeholder are left as they are. Templates are
// checked with ValidateTemplate when they are loaded, not here.
func Render(tmpl []byte, p Page) ([]byte, error) {
	pairs := make([]string, 0, 2*len(Tokens))
	for _, kv := range [][2]string{
		{TokenModuleBaseName, p.ModuleBaseName},
		{TokenDirectoryName, p.DirectoryName},
		{TokenLinkDirectoryName, p.linkDirectory()},
		{TokenReleaseTag, p.ReleaseTag},
	} {
		enc, err := json.Marshal(kv[1])
		if err != nil {
			return nil, errors.TemplateError("failed to encode placeholder value").
				WithCause(err).
				WithContext("token", kv[0]).
				Build()
		}
		pairs = append(pairs, kv[0], string(enc))
	}

	return []byte(strings.NewReplacer(pairs...).Replace(string(tmpl))), nil
}
