// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies command errors so scripts can tell bad
// input from missing files from internal failures without parsing
// message text.
type ErrorCategory string

const (
	// CategoryValidation: bad arguments, flags, or input content.
	// Fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: a named file or artifact does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryTransient: the operation was cut short, e.g. by a
	// timeout. Retrying with a longer budget may succeed.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal: an unexpected failure such as an I/O error
	// while writing output.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error returned by commands. It wraps the
// underlying error so errors.Is and errors.As still see the chain.
type ToolError struct {
	Category ErrorCategory
	Err      error
}

func (e *ToolError) Error() string { return e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// Validation creates a validation error.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
