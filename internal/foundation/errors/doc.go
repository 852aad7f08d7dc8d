// Package errors provides the classified error primitives used across docsite.
//
// Every failure that reaches the CLI is a ClassifiedError carrying a category,
// a severity and structured context. The categories map onto the error
// taxonomy of the build scripts:
//   - CategoryValidation: bad, missing or conflicting arguments (fail fast)
//   - CategoryProcess: an external process failed or could not start
//   - CategoryFileSystem: an expected path is missing or a filesystem call failed
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryProcess, "git clone failed").
//		WithContext("exit_code", 1).
//		WithCause(originalErr).
//		Build()
package errors
