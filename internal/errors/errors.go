package errors

import (
	"fmt"
)

// Error is a typed engine error carrying a stable code.
type Error struct {
	Code    string // engine error code, see codes.go
	Message string // primary error message
	Detail  string // optional detailed message
	Hint    string // optional hint for the caller
	Where   string // context where the error occurred
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (code %s) DETAIL: %s", e.Message, e.Code, e.Detail)
	}
	return fmt.Sprintf("%s (code %s)", e.Message, e.Code)
}

// New creates a new Error with the given code and message
func New(code string, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new Error with a formatted message
func Newf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetail adds detail to the error
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// WithDetailf adds formatted detail to the error
func (e *Error) WithDetailf(format string, args ...interface{}) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithHint adds a hint to the error
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// WithWhere sets the context where the error occurred
func (e *Error) WithWhere(where string) *Error {
	e.Where = where
	return e
}

// Common error constructors

// SchemaMismatchf creates a schema mismatch error
func SchemaMismatchf(format string, args ...interface{}) *Error {
	return Newf(SchemaMismatch, format, args...)
}

// IndexOutOfRangef creates an index out of range error
func IndexOutOfRangef(format string, args ...interface{}) *Error {
	return Newf(IndexOutOfRange, format, args...)
}

// InvalidConfigf creates an invalid configuration error
func InvalidConfigf(format string, args ...interface{}) *Error {
	return Newf(InvalidConfig, format, args...)
}

// TileReleasedError creates a use-after-release error for a tile
func TileReleasedError(tileID uint64) *Error {
	return Newf(TileReleased, "tile %d used after release", tileID)
}

// BackendExhaustedError creates a backend memory limit error
func BackendExhaustedError(requested, limit int64) *Error {
	return Newf(BackendExhausted, "backend memory limit exceeded").
		WithDetailf("requested %d bytes with limit %d bytes", requested, limit)
}

// InternalErrorf creates an internal error
func InternalErrorf(format string, args ...interface{}) *Error {
	return Newf(InternalError, format, args...)
}

// IsError checks if an error is an engine Error with a specific code
func IsError(err error, code string) bool {
	if err == nil {
		return false
	}
	eErr, ok := err.(*Error)
	return ok && eErr.Code == code
}

// GetError attempts to extract an engine Error from any error
func GetError(err error) *Error {
	if err == nil {
		return nil
	}
	if eErr, ok := err.(*Error); ok {
		return eErr
	}
	return InternalErrorf("%v", err)
}
