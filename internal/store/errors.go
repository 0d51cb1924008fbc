package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Update and Delete for unknown ids.
// Lookups return (nil, nil) instead so a missing record reads as an
// absence, not a failure.
var ErrNotFound = errors.New("record not found")

// TransportError wraps a failure to reach the backing store. Callers
// surface it unchanged so the UI can distinguish "the store is down"
// from "your input is wrong".
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError reports rejected input, naming the field when one
// is known.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid input: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
