package logging

import (
	"context"
	"log/slog"
)

// SlogLogger is the default backend, selected by log_backend "slog" or an
// empty value. Diagnostics go to stderr so they never mix with the view.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps l; see New for the handler the CLI builds.
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

// With scopes the logger, e.g. per service ("service", "session").
func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}
