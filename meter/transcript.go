package meter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/calebcase/cubench/internal/logging"
)

// Transcript collects the log lines emitted during invocations.
type Transcript struct {
	mu    sync.Mutex
	lines []string

	echo   io.Writer
	logger *logging.Logger
}

// TranscriptOption configures a Transcript.
type TranscriptOption func(t *Transcript)

// WithEcho writes every line to w as it arrives.
func WithEcho(w io.Writer) TranscriptOption {
	return func(t *Transcript) {
		t.echo = w
	}
}

// WithForward logs every line at debug level.
func WithForward(l *logging.Logger) TranscriptOption {
	return func(t *Transcript) {
		t.logger = l
	}
}

// NewTranscript returns an empty Transcript.
func NewTranscript(opts ...TranscriptOption) *Transcript {
	t := &Transcript{}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Log records msg.
func (t *Transcript) Log(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lines = append(t.lines, msg)

	if t.echo != nil {
		// Echo failures must not fail the invocation.
		_, _ = fmt.Fprintf(t.echo, "Program log: %s\n", msg)
	}

	if t.logger != nil {
		t.logger.Log(context.Background(), slog.LevelDebug, "program log", "line", msg)
	}
}

// Lines returns a copy of the recorded lines.
func (t *Transcript) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]string(nil), t.lines...)
}

// Reset drops all recorded lines.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lines = nil
}

// Budget is a source of remaining units.
type Budget interface {
	RemainingUnits() uint64
}

// Host pairs a budget with a transcript. It satisfies processor.Host.
type Host struct {
	Budget
	*Transcript
}

// NewHost returns a host draining by monotonic time from limit units.
func NewHost(limit uint64, opts ...TranscriptOption) *Host {
	return &Host{
		Budget:     NewClock(limit),
		Transcript: NewTranscript(opts...),
	}
}
