package logger

import "context"

// NoopLogger satisfies the small Info/Error logger interfaces used by
// platform packages and drops everything.
type NoopLogger struct{}

func (NoopLogger) Info(context.Context, string, ...Field)  {}
func (NoopLogger) Warn(context.Context, string, ...Field)  {}
func (NoopLogger) Error(context.Context, string, ...Field) {}
