// Package markdown renders a module's README into a landing page for the
// built site, resolving repository-relative links against the source host.
package markdown
