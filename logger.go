package bytefind

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/bytefind/search"
)

// Logger wraps slog.Logger with bytefind-specific context.
// This provides structured logging with consistent field names.
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
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithSession adds a session field to the logger.
func (l *Logger) WithSession(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("session", id),
	}
}

// WithRange adds the searched range to the logger.
func (l *Logger) WithRange(r search.Range) *Logger {
	return &Logger{
		Logger: l.Logger.With("begin", r.Begin, "end", r.End),
	}
}

// LogFind logs a single-match search.
func (l *Logger) LogFind(ctx context.Context, dir search.Direction, res search.Result, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "find failed",
			"direction", dir.String(),
			"error", err,
		)
	case res.Canceled:
		l.InfoContext(ctx, "find canceled",
			"direction", dir.String(),
		)
	default:
		l.DebugContext(ctx, "find completed",
			"direction", dir.String(),
			"found", res.Found,
			"offset", res.Offset,
		)
	}
}

// LogFindAll logs a find-all pass.
func (l *Logger) LogFindAll(ctx context.Context, m search.Matches, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "find all failed",
			"found", m.Count(),
			"error", err,
		)
	case m.Canceled:
		l.InfoContext(ctx, "find all canceled",
			"found", m.Count(),
		)
	default:
		l.DebugContext(ctx, "find all completed",
			"found", m.Count(),
		)
	}
}

// LogReplace logs a replace or replace-all operation.
func (l *Logger) LogReplace(ctx context.Context, m search.Matches, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "replace failed",
			"replaced", m.Count(),
			"error", err,
		)
	case m.Canceled:
		l.WarnContext(ctx, "replace canceled with partial writes",
			"replaced", m.Count(),
		)
	default:
		l.InfoContext(ctx, "replace completed",
			"replaced", m.Count(),
		)
	}
}
