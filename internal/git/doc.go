// Package git clones package repositories in-process with go-git.
//
// It is the alternative to spawning the git binary: the Cloner here satisfies
// the same contract, including treating an existing repository at the
// destination as a successful no-op clone. HeadCommit reads the checked-out
// commit of a staged clone for the build history.
package git
