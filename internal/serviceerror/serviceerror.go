// Package serviceerror defines the stable error taxonomy returned by the
// review-processing pipeline and maps arbitrary failures onto it.
package serviceerror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is a stable, client-visible error code.
type Kind string

// Error kinds.
const (
	InvalidRequest   Kind = "INVALID_REQUEST"
	ModelTimeout     Kind = "MODEL_TIMEOUT"
	ModelRateLimit   Kind = "MODEL_RATE_LIMIT"
	ModelSchemaError Kind = "MODEL_SCHEMA_ERROR"
	InternalError    Kind = "INTERNAL_ERROR"
)

const unauthorizedMessage = "Unauthorized request"

var defaultMessages = map[Kind]string{
	InvalidRequest:   "Invalid request.",
	ModelTimeout:     "Model call timed out.",
	ModelRateLimit:   "Rate limited by model provider.",
	ModelSchemaError: "Model returned invalid schema.",
	InternalError:    "Unhandled model error.",
}

var defaultStatus = map[Kind]int{
	InvalidRequest:   http.StatusBadRequest,
	ModelTimeout:     http.StatusGatewayTimeout,
	ModelRateLimit:   http.StatusTooManyRequests,
	ModelSchemaError: http.StatusBadGateway,
	InternalError:    http.StatusBadGateway,
}

// Error is a classified failure carrying its transport status.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New builds an Error of the given kind with its default status.
// An empty message is replaced by the kind's default message.
func New(kind Kind, message string) *Error {
	if strings.TrimSpace(message) == "" {
		message = defaultMessages[kind]
	}
	status, ok := defaultStatus[kind]
	if !ok {
		status = http.StatusBadGateway
	}
	return &Error{Kind: kind, Message: message, Status: status}
}

// Wrap is New with an underlying cause kept for errors.Is / errors.As.
func Wrap(kind Kind, message string, cause error) *Error {
	e := New(kind, message)
	e.cause = cause
	return e
}

// Invalid returns an INVALID_REQUEST error.
func Invalid(format string, args ...any) *Error {
	return New(InvalidRequest, fmt.Sprintf(format, args...))
}

// Unauthorized returns the 401 error used by the transport's auth check.
// It keeps the INVALID_REQUEST code.
func Unauthorized() *Error {
	return &Error{Kind: InvalidRequest, Message: unauthorizedMessage, Status: http.StatusUnauthorized}
}

// Schema returns a MODEL_SCHEMA_ERROR.
func Schema(message string) *Error {
	return New(ModelSchemaError, message)
}

// Classify maps err onto the taxonomy. Errors that are already classified
// pass through unchanged. Otherwise the message is matched case-insensitively:
// timeouts first, then rate limits, then schema/JSON problems.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	message := err.Error()
	lowered := strings.ToLower(message)

	switch {
	case strings.Contains(lowered, "timed out") || strings.Contains(lowered, "timeout"):
		return Wrap(ModelTimeout, message, err)
	case strings.Contains(lowered, "rate") && strings.Contains(lowered, "limit"):
		return Wrap(ModelRateLimit, message, err)
	case strings.Contains(lowered, "schema") || strings.Contains(lowered, "json"):
		return Wrap(ModelSchemaError, message, err)
	default:
		return Wrap(InternalError, message, err)
	}
}

// Is reports whether err classifies as the given kind.
func Is(err error, kind Kind) bool {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind == kind
	}
	return false
}
