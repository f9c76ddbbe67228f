package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed marks description text that is not well-formed YAML.
	ErrMalformed = errors.New("malformed machine description")

	// ErrInvalidDescription marks well-formed text that violates a description rule.
	ErrInvalidDescription = errors.New("invalid machine description")

	// ErrAlreadyHalted is returned when stepping a halted run.
	ErrAlreadyHalted = errors.New("machine already halted")

	// ErrMachineNotFound is returned when a name is not in the registry.
	ErrMachineNotFound = errors.New("machine not found")

	// ErrSessionNotFound is returned when a session ID cannot be found in the store.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidRunState is returned when a run state does not fit its machine.
	ErrInvalidRunState = errors.New("invalid run state")

	// ErrInvalidInput is returned when a tape input is too large or not printable text.
	ErrInvalidInput = errors.New("invalid tape input")

	// ErrStepBudgetExceeded is returned by drivers that cap the number of steps.
	ErrStepBudgetExceeded = errors.New("step budget exceeded")
)

// ParseErrorKind distinguishes syntactic from semantic failures.
type ParseErrorKind int

const (
	KindMalformed ParseErrorKind = iota
	KindInvalid
)

// ParseError is returned by the description loader.
// errors.Is matches it against ErrMalformed or ErrInvalidDescription by Kind.
type ParseError struct {
	Kind ParseErrorKind

	// Field names the offending key, e.g. "blank_symbol" or "transitions[2].moves".
	Field string

	// Index is the position of the offending transition, or -1.
	Index int

	Reason string

	// Err is the underlying parser error for KindMalformed.
	Err error
}

// Malformed wraps a syntactic error.
func Malformed(err error) *ParseError {
	return &ParseError{Kind: KindMalformed, Index: -1, Reason: err.Error(), Err: err}
}

// Invalid builds a semantic error for a top-level field.
func Invalid(field, reason string) *ParseError {
	return &ParseError{Kind: KindInvalid, Field: field, Index: -1, Reason: reason}
}

// InvalidTransition builds a semantic error for one transition.
func InvalidTransition(index int, part, reason string) *ParseError {
	field := fmt.Sprintf("transitions[%d]", index)
	if part != "" {
		field += "." + part
	}
	return &ParseError{Kind: KindInvalid, Field: field, Index: index, Reason: reason}
}

func (e *ParseError) Error() string {
	if e.Kind == KindMalformed {
		return fmt.Sprintf("%s: %s", ErrMalformed, e.Reason)
	}
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidDescription, e.Reason)
	}
	return fmt.Sprintf("%s: field %q: %s", ErrInvalidDescription, e.Field, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *ParseError) Is(target error) bool {
	switch e.Kind {
	case KindMalformed:
		return target == ErrMalformed
	default:
		return target == ErrInvalidDescription
	}
}
