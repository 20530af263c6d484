package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for any request value outside its domain.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidMaterial is returned when a material tag is not in the table.
	ErrInvalidMaterial = errors.New("invalid material")

	// ErrNumericDivergence is returned when the entry integration fails to
	// reach the ground within its step budget or produces a non-finite state.
	ErrNumericDivergence = errors.New("numeric divergence")
)

// InputError names the offending request field and its valid range.
// It matches ErrInvalidInput with errors.Is, plus Err when set.
type InputError struct {
	Field string
	Value any
	Range string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %v: must be %s", e.Field, e.Value, e.Range)
}

func (e *InputError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}
