package logger

import (
	"context"
	"fmt"
	"os"
	"sync"
)

type ctxKey struct{}

// WithContext returns a new context with the given logger stored in it.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the request-scoped logger from ctx. When none is
// stored it returns a shared warn-level stderr logger so errors are never
// silently dropped.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	return fallbackLogger()
}

var (
	fallbackLog  Logger
	fallbackOnce sync.Once
)

func fallbackLogger() Logger {
	fallbackOnce.Do(func() {
		l, err := New(Config{Level: "warn", OutputPaths: []string{"stderr"}})
		if err != nil {
			fmt.Fprintf(os.Stderr, "CRITICAL: failed to create fallback logger: %v\n", err)
			l = NewNop()
		}
		fallbackLog = l
	})
	return fallbackLog
}

// FromContextOr returns the logger stored in ctx, or def when none is stored.
func FromContextOr(ctx context.Context, def Logger) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	return def
}
