package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}

// Options selects the sink, level and format of a process logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or json
	Output io.Writer
}

// Handle owns the process logger and its sink. Close flushes the sink and
// must be called once during shutdown.
type Handle struct {
	*SlogLogger
	out io.Writer
}

// New builds the process logger. Output defaults to stdout.
func New(opts Options) *Handle {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	hopts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var h slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		h = slog.NewJSONHandler(out, hopts)
	} else {
		h = slog.NewTextHandler(out, hopts)
	}

	return &Handle{SlogLogger: NewSlogLogger(slog.New(h)), out: out}
}

// Close flushes buffered output. Standard streams are synced, never closed.
func (h *Handle) Close() error {
	switch w := h.out.(type) {
	case *os.File:
		if w == os.Stdout || w == os.Stderr {
			// Sync on a terminal or pipe returns EINVAL; nothing was buffered.
			_ = w.Sync()
			return nil
		}
		if err := w.Sync(); err != nil {
			return err
		}
		return w.Close()
	case interface{ Flush() error }:
		return w.Flush()
	}
	return nil
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
