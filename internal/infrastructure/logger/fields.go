package logger

import (
	"time"

	"go.uber.org/zap"
)

// String creates a string field.
func String(key, val string) Field { return zap.String(key, val) }

// Int creates an int field.
func Int(key string, val int) Field { return zap.Int(key, val) }

// Int64 creates an int64 field.
func Int64(key string, val int64) Field { return zap.Int64(key, val) }

// Float64 creates a float64 field.
func Float64(key string, val float64) Field { return zap.Float64(key, val) }

// Bool creates a bool field.
func Bool(key string, val bool) Field { return zap.Bool(key, val) }

// Duration creates a duration field.
func Duration(key string, val time.Duration) Field { return zap.Duration(key, val) }

// Error creates an error field with the key "error".
func Error(err error) Field { return zap.Error(err) }

// Any creates a field that can hold any value.
func Any(key string, val any) Field { return zap.Any(key, val) }

// Strings creates a string slice field.
func Strings(key string, val []string) Field { return zap.Strings(key, val) }

// Pipeline correlation fields.

// RequestID tags an entry with the caller's request id.
func RequestID(id string) Field { return zap.String("request_id", id) }

// ReviewID tags an entry with the review being processed.
func ReviewID(id string) Field { return zap.String("review_id", id) }

// OrgID tags an entry with the owning organization.
func OrgID(id string) Field { return zap.String("org_id", id) }

// TraceID tags an entry with a provider call's trace id.
func TraceID(id string) Field { return zap.String("trace_id", id) }

// Subject tags an entry with the authenticated JWT subject.
func Subject(sub string) Field { return zap.String("subject", sub) }
