package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyModule     = "module"
	KeyURL        = "url"
	KeyTag        = "tag"
	KeyPath       = "path"
	KeySource     = "source"
	KeyDest       = "destination"
	KeyStage      = "stage"
	KeyCommand    = "command"
	KeyExitCode   = "exit_code"
	KeyCommit     = "commit"
	KeyDurationMS = "duration_ms"
	KeyJobID      = "job_id"
	KeySchedule   = "schedule"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Module(id string) slog.Attr      { return slog.String(KeyModule, id) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Tag(t string) slog.Attr          { return slog.String(KeyTag, t) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func Dest(p string) slog.Attr         { return slog.String(KeyDest, p) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func Commit(hash string) slog.Attr    { return slog.String(KeyCommit, hash) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func JobID(id string) slog.Attr       { return slog.String(KeyJobID, id) }
func Schedule(s string) slog.Attr     { return slog.String(KeySchedule, s) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
