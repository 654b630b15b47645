package log

import (
	"io"
	"log/slog"
	"os"
)

// Options carry the fixed attributes stamped on every log record. The zero
// Level is info
type Options struct {
	Service string
	Env     string
	Version string
	Level   slog.Level
}

// New constructs a JSON slog.Logger writing to stdout
func New(o Options) *slog.Logger {
	return NewWriter(os.Stdout, o)
}

// NewWriter constructs a JSON slog.Logger on the given writer
func NewWriter(w io.Writer, o Options) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: o.Level,
	})

	return slog.New(handler).With(
		slog.String("service", o.Service),
		slog.String("env", o.Env),
		slog.String("version", o.Version))
}
