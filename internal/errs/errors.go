// Package errs provides the unified error type used across duckdb-reflect.
//
// Every subsystem (engine, schema, filestore, server, …) wraps its native
// errors into *errs.Error before returning them to callers. Callers use the
// Is* predicates to handle errors without importing driver-specific packages.
//
// Usage:
//
//	// In the engine — wrap native errors:
//	return errs.Wrap(errs.ErrKindQueryFailed, "catalog scan failed", dbErr)
//
//	// In a caller — check error kind:
//	if errs.IsNotFound(err) {
//	    return false, nil // has_table semantics
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing engine-specific codes.
// The reflection layer maps all native errors to one of these kinds,
// giving callers a single consistent API.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // table/schema/object absent from the catalog
	ErrKindParse                    // dotted identifier could not be split
	ErrKindUnsupported              // catalog feature missing in this engine version
	ErrKindConnectionFailed         // cannot open or reach the database
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindQueryFailed              // SQL or catalog operation error
	ErrKindInvalidInput             // bad arguments from the caller
	ErrKindPermissionDenied         // storage credentials rejected
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindParse:
		return "parse"
	case ErrKindUnsupported:
		return "unsupported"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all duckdb-reflect subsystems.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original engine-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf creates an *Error with a formatted message and no cause.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsNotFound reports whether err represents a missing catalog object
// (unknown table, schema, view, …).
func IsNotFound(err error) bool {
	return kindOf(err) == ErrKindNotFound
}

// IsParse reports whether err was caused by an unparseable qualified name.
func IsParse(err error) bool {
	return kindOf(err) == ErrKindParse
}

// IsUnsupported reports whether err represents a catalog feature the
// connected engine version does not provide.
func IsUnsupported(err error) bool {
	return kindOf(err) == ErrKindUnsupported
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return kindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity failure.
func IsConnectionFailed(err error) bool {
	return kindOf(err) == ErrKindConnectionFailed
}

// IsQueryFailed reports whether err is an engine operation failure.
func IsQueryFailed(err error) bool {
	return kindOf(err) == ErrKindQueryFailed
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return kindOf(err) == ErrKindInvalidInput
}

// IsPermissionDenied reports whether err is a storage authorization failure.
func IsPermissionDenied(err error) bool {
	return kindOf(err) == ErrKindPermissionDenied
}

// kindOf extracts the ErrKind from any error in the chain.
func kindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
