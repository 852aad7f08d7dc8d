package redirect

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// ValidateTemplate checks where placeholders sit in tmpl. Values are
// substituted as JSON strings, which are only safe as JavaScript
// expressions, so every placeholder must be in the text of a <script>
// element and must not already be wrapped in quotes. A template without
// placeholders is valid.
func ValidateTemplate(tmpl []byte) error {
	z := html.NewTokenizer(bytes.NewReader(tmpl))
	line := 1
	inScript := false
	for {
		tt := z.Next()
		raw := z.Raw()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return errors.TemplateError("failed to parse redirect template").WithCause(err).Build()
			}
			if inScript {
				return errors.TemplateError("redirect template has an unterminated <script> element").
					WithContext("line", line).
					Build()
			}
			return nil
		case html.TextToken:
			if inScript {
				if err := checkScriptText(raw, line); err != nil {
					return err
				}
				break
			}
			if err := rejectPlaceholder(raw, line, "text"); err != nil {
				return err
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if err := rejectPlaceholder(raw, line, fmt.Sprintf("<%s> tag", name)); err != nil {
				return err
			}
			if string(name) == "script" {
				inScript = tt == html.StartTagToken
			}
		default:
			if err := rejectPlaceholder(raw, line, "markup"); err != nil {
				return err
			}
		}
		line += bytes.Count(raw, []byte("\n"))
	}
}

// rejectPlaceholder fails when raw contains any placeholder.
func rejectPlaceholder(raw []byte, line int, where string) error {
	for _, tok := range Tokens {
		if i := bytes.Index(raw, []byte(tok)); i >= 0 {
			return errors.TemplateError(fmt.Sprintf("placeholder %s must be inside a <script> element, found in %s", tok, where)).
				WithContext("token", tok).
				WithContext("line", line+bytes.Count(raw[:i], []byte("\n"))).
				Build()
		}
	}
	return nil
}

// checkScriptText fails when a placeholder is written inside a string literal.
func checkScriptText(raw []byte, line int) error {
	for _, tok := range Tokens {
		rest, offset := raw, 0
		for {
			i := bytes.Index(rest, []byte(tok))
			if i < 0 {
				break
			}
			at := offset + i
			if at > 0 && bytes.IndexByte([]byte("\"'`"), raw[at-1]) >= 0 {
				return errors.TemplateError(fmt.Sprintf("placeholder %s is already quoted; it is replaced by a JSON string", tok)).
					WithContext("token", tok).
					WithContext("line", line+bytes.Count(raw[:at], []byte("\n"))).
					Build()
			}
			offset = at + len(tok)
			rest = raw[offset:]
		}
	}
	return nil
}
