package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind is the machine-checkable classification of a core error.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindValidation        ErrorKind = "validation"
	KindConflict          ErrorKind = "conflict"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindUnauthorized      ErrorKind = "unauthorized"
	KindStateConflict     ErrorKind = "state_conflict"
	KindUnavailable       ErrorKind = "unavailable"
)

// Error carries a kind plus a human-readable message. Services raise it
// at the point of detection and it propagates unmodified to the caller.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransition(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...interface{}) error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func StateConflict(format string, args ...interface{}) error {
	return &Error{Kind: KindStateConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the classification of err, or "" for plain errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StatusFor maps a core error to the HTTP status the presentation layer
// exposes. Unclassified errors surface as 500.
func StatusFor(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindValidation:
		return fiber.StatusBadRequest
	case KindConflict, KindInvalidTransition, KindStateConflict:
		return fiber.StatusConflict
	case KindUnauthorized:
		return fiber.StatusForbidden
	case KindUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorResponse is the JSON body for error replies.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
