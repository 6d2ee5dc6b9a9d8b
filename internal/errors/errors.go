// Package errors carries the console's error taxonomy. Repositories translate
// driver failures into these codes so handlers can pick HTTP statuses without
// inspecting pg error text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes an application error.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "not_found"
	ErrCodeConflict     ErrorCode = "conflict"
	ErrCodeValidation   ErrorCode = "validation"
	ErrCodeForeignKey   ErrorCode = "foreign_key"
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	ErrCodeInternal     ErrorCode = "internal"
	ErrCodeTimeout      ErrorCode = "timeout"
	ErrCodeCanceled     ErrorCode = "canceled"
)

// AppError is a coded error with an optional cause and, for validation
// failures, the offending field. It participates in errors.Is/As chains.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	// Field names the input field behind a validation failure, when known.
	Field string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// NotFound builds a not_found error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// NotFoundf builds a not_found error from a format string.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a conflict error, typically from a unique violation.
func Conflict(message string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message}
}

// Validation builds a validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField builds a validation error attributed to one field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Unauthorized builds an unauthorized error.
func Unauthorized(message string) *AppError {
	return &AppError{Code: ErrCodeUnauthorized, Message: message}
}

// Internal builds an internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// Wrap attaches a code and message to an existing error, keeping it as the
// cause. Returns nil for a nil error so call sites can wrap unconditionally.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound reports whether err carries ErrCodeNotFound anywhere in its chain.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsConflict reports whether err carries ErrCodeConflict.
func IsConflict(err error) bool { return isCode(err, ErrCodeConflict) }

// IsValidation reports whether err carries ErrCodeValidation.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsForeignKey reports whether err carries ErrCodeForeignKey.
func IsForeignKey(err error) bool { return isCode(err, ErrCodeForeignKey) }

// IsUnauthorized reports whether err carries ErrCodeUnauthorized.
func IsUnauthorized(err error) bool { return isCode(err, ErrCodeUnauthorized) }

// GetCode extracts the ErrorCode from an error chain, or "" for plain errors.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField extracts the validation field from an error chain, or "".
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
