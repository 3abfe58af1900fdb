package logger

import (
	"context"
)

// Logger is the logging interface used across the application. Keeping it
// narrow allows swapping the underlying implementation without touching
// services.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
}
