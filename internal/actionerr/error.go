// Package actionerr defines errors that terminate an action run.
package actionerr

import (
	"errors"
	"fmt"
)

// InputError is returned when a required action input is missing or empty.
type InputError struct {
	Input string
}

func NewInputError(input string) *InputError {
	return &InputError{Input: input}
}

func (e *InputError) Error() string {
	return fmt.Sprintf("Input required and not supplied: %s", e.Input)
}

// IsInputError returns true if err wraps an *InputError.
func IsInputError(err error) bool {
	var inputErr *InputError
	return errors.As(err, &inputErr)
}

// PanicError wraps a value recovered from a panic in an action path.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("unexpected failure: %v", e.Value)
}
