// Package build runs the documentation build for one module.
//
// A build is strictly sequential: prepare the output tree, clone the module
// into its staging directory, relocate the generated HTML documentation,
// write the redirect pages, relocate the examples, render the README and
// copy the static site pages. The staging directory is removed on every exit
// path. Metrics, history and event publishing observe the result but never
// change it.
package build
