// Package workspace manages the staging tree a module is cloned into.
//
// A staging directory lives at <packages>/<module> for the duration of one
// build. WithStaging acquires it, runs the build steps and removes it on every
// exit path, successful or not. Keep mode leaves the directory in place for
// inspection.
package workspace
