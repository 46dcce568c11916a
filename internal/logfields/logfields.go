package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeySection    = "section"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyPage       = "page"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyEngine     = "engine"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Section(s string) slog.Attr      { return slog.String(KeySection, s) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Page(n int) slog.Attr            { return slog.Int(KeyPage, n) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Engine(name string) slog.Attr    { return slog.String(KeyEngine, name) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
