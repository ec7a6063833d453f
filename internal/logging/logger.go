// Package logging wraps slog with the fields used across cubench.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/zeebo/errs"
)

// Error is the error class for logging failures.
var Error = errs.Class("logging")

// Logger wraps slog.Logger with consistent field names.
type Logger struct {
	*slog.Logger
}

// New creates a Logger with the given handler. A nil handler logs text to
// stderr at info level.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSON creates a Logger writing JSON records to w.
func NewJSON(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewText creates a Logger writing human readable records to w.
func NewText(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Noop discards everything.
func Noop() *Logger {
	return New(slog.DiscardHandler)
}

// ParseLevel accepts debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(strings.ToUpper(s)))
	if err != nil {
		return 0, Error.New("invalid log level %q", s)
	}

	return level, nil
}

// Open builds a Logger from the configured format ("text" or "json") and
// level.
func Open(w io.Writer, format, level string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	switch format {
	case "", "text":
		return NewText(w, lvl), nil
	case "json":
		return NewJSON(w, lvl), nil
	}

	return nil, Error.New("invalid log format %q", format)
}

// WithInstruction adds the instruction name.
func (l *Logger) WithInstruction(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("instruction", name),
	}
}

// WithRun adds a benchmark run id.
func (l *Logger) WithRun(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", id),
	}
}

// LogInvocation logs the outcome of one processed request.
func (l *Logger) LogInvocation(ctx context.Context, name string, units uint64, err error) {
	if err != nil {
		l.WarnContext(ctx, "invocation failed",
			"instruction", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "invocation completed",
			"instruction", name,
			"units", units,
		)
	}
}

// LogCalibration logs a derived correction.
func (l *Logger) LogCalibration(ctx context.Context, samples int, correction uint64) {
	l.InfoContext(ctx, "calibration completed",
		"samples", samples,
		"correction", correction,
	)
}

// LogCase logs the summary of one benchmark case.
func (l *Logger) LogCase(ctx context.Context, name string, repeat int, median uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "case failed",
			"case", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "case completed",
			"case", name,
			"repeat", repeat,
			"median", median,
		)
	}
}
