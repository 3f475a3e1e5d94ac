// Package errors attaches machine-readable codes to treelayout errors.
//
// The layout core (pkg/hierarchy) reports per-root failures with its own
// sentinel errors. Everything above it, from the edge readers to the HTTP
// API, wraps failures in an [*Error] carrying a [Code], so the CLI can print
// a readable message and the API can pick a status without string matching:
//
//	err := errors.New(errors.ErrCodeInvalidInput, "missing column %q", name)
//	err = errors.Wrap(errors.ErrCodeInvalidGraph, layoutErr, "layout %s", path)
//
//	if errors.Is(err, errors.ErrCodeInvalidInput) { ... }
//
// Codes starting with INVALID_ or ending in NOT_FOUND blame the caller; see
// [Code.Client].
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeCacheUnavailable Code = "CACHE_UNAVAILABLE"
	ErrCodeStoreUnavailable Code = "STORE_UNAVAILABLE"
	ErrCodeTimeout          Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Client reports whether errors with this code are caused by the caller's
// input rather than by treelayout or a backing service.
func (c Code) Client() bool {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidGraph, ErrCodeInvalidFormat,
		ErrCodeInvalidPath, ErrCodeInvalidConfig,
		ErrCodeNotFound, ErrCodeFileNotFound:
		return true
	}
	return false
}

// Error is a coded error. Cause, when set, is reachable through
// errors.Unwrap, so sentinel checks keep working on wrapped layout errors.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is like [New] but keeps cause in the chain.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// as returns the outermost *Error in err's chain.
func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// GetCode returns the outermost code in err's chain, or "" for uncoded
// errors.
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns err without its code prefix, for display to people.
func UserMessage(err error) string {
	e, ok := as(err)
	if !ok {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

// IsClientError reports whether err carries a code for which
// [Code.Client] is true.
func IsClientError(err error) bool {
	return GetCode(err).Client()
}
