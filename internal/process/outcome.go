package process

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Status is the tag of an Outcome.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// NoExitCode is reported when the process never produced an exit code,
// for example because the executable could not be started.
const NoExitCode = -1

// Outcome is the result of one external process run.
type Outcome struct {
	Status   Status
	Command  string
	ExitCode int
	// Reason explains a failure. Empty on success.
	Reason string
	// Accepted is set when the process exited non-zero with a code the
	// caller declared acceptable.
	Accepted bool
	// Signaled is set when the process ran but was terminated by a signal.
	// ExitCode is NoExitCode in that case.
	Signaled bool
}

// Success returns a successful Outcome for command.
func Success(command string) Outcome {
	return Outcome{Status: StatusSuccess, Command: command}
}

// AcceptedExit returns a successful Outcome for a declared non-zero exit code.
func AcceptedExit(command string, code int) Outcome {
	return Outcome{Status: StatusSuccess, Command: command, ExitCode: code, Accepted: true}
}

// FailedStart returns a failed Outcome for a process that never ran.
func FailedStart(command, reason string) Outcome {
	return Outcome{Status: StatusFailure, Command: command, ExitCode: NoExitCode, Reason: reason}
}

// FailedExit returns a failed Outcome for a non-zero exit.
func FailedExit(command string, code int, reason string) Outcome {
	return Outcome{Status: StatusFailure, Command: command, ExitCode: code, Reason: reason}
}

// KilledBySignal returns a failed Outcome for a process terminated by a
// signal, including a kill caused by context cancellation.
func KilledBySignal(command, reason string) Outcome {
	return Outcome{Status: StatusFailure, Command: command, ExitCode: NoExitCode, Reason: reason, Signaled: true}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool { return o.Status == StatusSuccess }

func (o Outcome) String() string {
	switch {
	case o.OK() && o.Accepted:
		return fmt.Sprintf("%s: success (accepted exit code %d)", o.Command, o.ExitCode)
	case o.OK():
		return fmt.Sprintf("%s: success", o.Command)
	case o.Signaled:
		return fmt.Sprintf("%s: terminated: %s", o.Command, o.Reason)
	case o.ExitCode == NoExitCode:
		return fmt.Sprintf("%s: failed to start: %s", o.Command, o.Reason)
	default:
		return fmt.Sprintf("%s: exit code %d", o.Command, o.ExitCode)
	}
}

// Err converts a failed Outcome into a ProcessError. Success yields nil.
func (o Outcome) Err() error {
	if o.OK() {
		return nil
	}
	var msg string
	switch {
	case o.Signaled:
		msg = fmt.Sprintf("%s was terminated by a signal", o.Command)
	case o.ExitCode == NoExitCode:
		msg = fmt.Sprintf("%s failed", o.Command)
	default:
		msg = fmt.Sprintf("%s returned with exit code %d", o.Command, o.ExitCode)
	}
	b := errors.ProcessError(msg).
		WithContext("command", o.Command).
		WithContext("exit_code", o.ExitCode).
		WithContext("signaled", o.Signaled)
	if reason := strings.TrimSpace(o.Reason); reason != "" {
		b = b.WithCause(fmt.Errorf("%s", reason))
	}
	return b.Build()
}
