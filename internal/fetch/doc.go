// Package fetch clones a package's source repository into the staging tree.
//
// A Request names the package and its repository and optionally pins a tag or
// a semantic version. The Fetcher validates the request, builds the canonical
// clone URL from the configured source host and owner, and hands the clone to
// a Cloner. Cloning into a directory that already holds the repository is a
// no-op success.
package fetch
