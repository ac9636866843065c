package logging

import (
	"context"
	"log/slog"
	"time"
)

// Attr aliases slog.Attr so call sites can stay on the logging package.
type Attr = slog.Attr

func Any(key string, value any) Attr          { return slog.Any(key, value) }
func Bool(key string, value bool) Attr        { return slog.Bool(key, value) }
func Duration(key string, d time.Duration) Attr { return slog.Duration(key, d) }
func Float64(key string, value float64) Attr  { return slog.Float64(key, value) }
func Int(key string, value int) Attr          { return slog.Int(key, value) }
func Int64(key string, value int64) Attr      { return slog.Int64(key, value) }
func String(key, value string) Attr           { return slog.String(key, value) }
func Uint64(key string, value uint64) Attr    { return slog.Uint64(key, value) }

// Group nests attributes under a shared key.
func Group(key string, args ...any) Attr { return slog.Group(key, args...) }

// Error tags a record with the error message under the conventional key.
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Alert marks a record as operator-facing; notification routing keys off it.
func Alert(name string) Attr { return slog.String(FieldAlert, name) }

// Args converts attrs into the variadic any form slog methods accept.
func Args(attrs ...Attr) []any {
	out := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, attr)
	}
	return out
}

// NewNop returns a logger that discards every record.
func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger stamps every record with a component name so console
// output groups lines by subsystem.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// NoopHandler ignores all records. Useful as a default in tests.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }
func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler        { return NoopHandler{} }
func (NoopHandler) WithGroup(string) slog.Handler             { return NoopHandler{} }
