package errors

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation error", ValidationError("both tag and version set").Build(), 2},
		{"config error", ConfigError("bad config").Build(), 7},
		{"process error", ProcessError("git exited 1").Build(), 8},
		{"git error", GitError("clone failed").Build(), 8},
		{"filesystem error", IOError("source missing").Build(), 11},
		{"wrapped filesystem error", fmt.Errorf("relocate: %w", IOError("x").Build()), 11},
		{"internal error", InternalError("boom").Build(), 10},
		{"unclassified error", &customError{msg: "unknown error"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.ExitCodeFor(tt.err)
			if got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"nil error", nil, ""},
		{"internal error in non-verbose mode", InternalError("internal issue").Build(), "Internal error occurred (use -v for details)"},
		{"validation error", ValidationError("option tag and version are incompatible").Build(), "option tag and version are incompatible"},
		{"wrapped cause", WrapError(errors.New("exit status 2"), CategoryProcess, "git clone failed").Build(), "git clone failed: exit status 2"},
		{"unclassified error", &customError{msg: "unknown error"}, "Error: unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.FormatError(tt.err)
			if tt.contains == "" {
				if got != "" {
					t.Errorf("FormatError() = %q, want empty string", got)
				}
				return
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("FormatError() = %q, want to contain %q", got, tt.contains)
			}
		})
	}
}

func TestCLIErrorAdapter_Report(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	adapter := NewCLIErrorAdapter(true, logger)
	var out bytes.Buffer
	adapter.out = &out

	code := adapter.Report(ValidationError("missing module identifier").WithContext("args", 0).Build())

	if code != 2 {
		t.Errorf("Report() = %d, want 2", code)
	}
	if !strings.Contains(out.String(), "missing module identifier") {
		t.Errorf("expected message on output, got %q", out.String())
	}
	if !strings.Contains(logs.String(), "category=validation") {
		t.Errorf("expected category attribute in logs, got %q", logs.String())
	}
}

// customError is a test helper for unclassified errors
type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
