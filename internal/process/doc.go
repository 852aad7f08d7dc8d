// Package process runs external executables and maps their termination to a
// typed Outcome.
//
// Each call to Run spawns exactly one child process and blocks until it exits.
// There is no retry and no timeout: a hung child hangs the caller until the
// context is cancelled.
package process
