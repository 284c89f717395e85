package proclus

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with PROCLUS-specific helpers so that every run
// reports its phases with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that writes human-readable text logs to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that writes JSON logs to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// loggerFrom returns l wrapped, or a no-op logger when l is nil.
func loggerFrom(l *slog.Logger) *Logger {
	if l == nil {
		return NoopLogger()
	}
	return &Logger{Logger: l}
}

// LogPhase logs the start of an algorithm phase.
func (l *Logger) LogPhase(phase string, args ...any) {
	l.Info(phase, args...)
}

// LogIteration logs one pass of the iterative phase.
func (l *Logger) LogIteration(stats IterationStats) {
	l.Debug("iteration",
		"iteration", stats.Iteration,
		"objective", stats.Objective,
		"best_objective", stats.BestObjective,
		"clusters", stats.Clusters,
		"improved", stats.Improved,
	)
}

// LogResult logs the final clustering summary.
func (l *Logger) LogResult(r *Result) {
	l.Info("clustering completed",
		"clusters", len(r.Clusters),
		"iterations", r.Iterations,
		"best_objective", r.BestObjective,
	)
}
