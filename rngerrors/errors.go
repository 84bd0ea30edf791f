// Package rngerrors provides structured error types for relaxwalk.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between categories of
// construction-time failure and implement appropriate recovery strategies.
//
// Per-event validation outcomes (the walker's Ok/NoMatch/Errors trichotomy)
// are intentionally NOT represented here: walker.ValidationError is a plain
// value type, never wrapped as a Go error, because the walker never fails
// an event dispatch in the exception sense. rngerrors covers only
// construction-time and I/O-boundary failures: preparation, datatype
// registration, and tree (de)serialization.
//
// # Usage with errors.As
//
//	result, err := pattern.LoadFile("schema.json")
//	if err != nil {
//	    var prepErr *rngerrors.PreparationError
//	    if errors.As(err, &prepErr) {
//	        // handle an unresolved ref specifically
//	    }
//	}
package rngerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrUnresolvedRef indicates a Ref node that has no matching Define.
	ErrUnresolvedRef = errors.New("unresolved reference")

	// ErrUnknownDatatype indicates a Value or Data pattern names a datatype
	// that is not registered in the Registry consulted at load time.
	ErrUnknownDatatype = errors.New("unknown datatype")

	// ErrBadParameter indicates a Data pattern's parameter facets were
	// rejected by the datatype implementation at construction time.
	ErrBadParameter = errors.New("invalid datatype parameter")

	// ErrDecode indicates a failure decoding the JSON tree wire format.
	ErrDecode = errors.New("tree decode error")

	// ErrConfig indicates invalid functional-option configuration.
	ErrConfig = errors.New("configuration error")
)

// PreparationError represents a failure during pattern resolution or
// preparation (the two passes described for pattern construction).
type PreparationError struct {
	// Path is the origin path of the offending pattern node, for debugging.
	Path string
	// Message describes the preparation failure.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *PreparationError) Error() string {
	msg := "preparation error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *PreparationError) Unwrap() error { return e.Cause }

func (e *PreparationError) Is(target error) bool {
	return target == ErrUnresolvedRef && errors.Is(e.Cause, ErrUnresolvedRef)
}

// DatatypeError represents a failure registering or invoking a datatype.
type DatatypeError struct {
	// Library is the datatype library URI (empty string for RNG built-ins).
	Library string
	// Type is the datatype's local type name.
	Type string
	// Message describes the failure.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *DatatypeError) Error() string {
	msg := "datatype error"
	if e.Type != "" {
		msg += fmt.Sprintf(" (%s:%s)", e.Library, e.Type)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *DatatypeError) Unwrap() error { return e.Cause }

func (e *DatatypeError) Is(target error) bool {
	return target == ErrUnknownDatatype || target == ErrBadParameter
}

// DecodeError represents a failure decoding the JSON tree wire format.
type DecodeError struct {
	// Offset is the byte offset into the source, if known (0 if unknown).
	Offset int
	// Message describes the decode failure.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *DecodeError) Error() string {
	msg := "tree decode error"
	if e.Offset > 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Cause }

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// ConfigError represents an invalid functional-option configuration.
type ConfigError struct {
	// Option is the name of the problematic option.
	Option string
	// Value is the invalid value provided, if applicable.
	Value any
	// Message describes the configuration error.
	Message string
}

func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
