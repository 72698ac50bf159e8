// Package errs categorises run failures so the app can map them to exit
// codes and log them with context.
//
//	err := errs.New(errs.TypeStructural, "missing sample identifier").
//	    WithDetail("line", 12)
//
//	if err := f.Close(); err != nil {
//	    return errs.Wrap(err, errs.TypeIO, "close output")
//	}
package errs

import (
	"context"
	"errors"
	"fmt"
)

// Type is the category of a failure.
type Type string

const (
	// TypeInternal is anything not otherwise categorised.
	TypeInternal Type = "internal"
	// TypeConfig is a bad flag, env var or config file value.
	TypeConfig Type = "config"
	// TypeStructural is input missing a required field, such as an identifier.
	TypeStructural Type = "structural"
	// TypeParse is a malformed token rejected by strict parsing.
	TypeParse Type = "parse"
	// TypeIO is a failure opening, reading or writing a file.
	TypeIO Type = "io"
)

// Exit codes returned by the app.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitIO       = 3
	ExitInput    = 4
	ExitCanceled = 130
)

// Error is a categorised error with optional key/value context.
type Error struct {
	Type    Type
	Message string
	Cause   error
	Details map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// WithDetail adds a key/value pair and returns e for chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New returns an error of type t.
func New(t Type, message string) *Error {
	return &Error{Type: t, Message: message}
}

// Newf is New with formatting.
func Newf(t Type, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// Wrap categorises err. It returns nil for a nil err.
func Wrap(err error, t Type, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Type: t, Message: message, Cause: err}
}

// TypeOf returns the type of the outermost *Error in err's chain, or
// TypeInternal.
func TypeOf(err error) Type {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return TypeInternal
}

// Is reports whether err carries type t anywhere in its chain.
func Is(err error, t Type) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Type == t {
			return true
		}
		err = e.Cause
	}
	return false
}

// DetailsOf merges the details of every *Error in err's chain. Outer
// values win.
func DetailsOf(err error) map[string]any {
	out := map[string]any{}
	var chain []*Error
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}
		chain = append(chain, e)
		err = e.Cause
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].Details {
			out[k] = v
		}
	}
	return out
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitCanceled
	}
	switch TypeOf(err) {
	case TypeConfig:
		return ExitUsage
	case TypeStructural, TypeParse:
		return ExitInput
	case TypeIO:
		return ExitIO
	}
	return ExitFailure
}
