package offmeta

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with offmeta-specific context.
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
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

// WithSession tags every record with a session id.
func (l *Logger) WithSession(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("session", id),
	}
}

// LogRetrieval logs a paginated search.
func (l *Logger) LogRetrieval(ctx context.Context, query string, pages, cards int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "retrieval failed",
			"query", query,
			"pages", pages,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "retrieval completed",
			"query", query,
			"pages", pages,
			"cards", cards,
		)
	}
}

// LogRank logs a ranking pass.
func (l *Logger) LogRank(ctx context.Context, r RankState, in, out int) {
	l.DebugContext(ctx, "ranked results",
		"percentile", r.Percentile,
		"sort", string(r.SortKey),
		"dir", string(r.Direction),
		"in", in,
		"out", out,
	)
}

// LogDetail logs a single-card fetch.
func (l *Logger) LogDetail(ctx context.Context, kind, id string, err error) {
	if err != nil {
		l.WarnContext(ctx, "card fetch failed",
			"kind", kind,
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "card fetch completed",
			"kind", kind,
			"id", id,
		)
	}
}
