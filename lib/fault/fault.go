// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrInput is matched by every [InputError].
	ErrInput = errors.New("input error")

	// ErrInvalidArgument is wrapped by errors returned from
	// [InvalidArgument].
	ErrInvalidArgument = errors.New("invalid argument")
)

// InputError reports that a source could not be read or parsed.
type InputError struct {
	// Source names what was being read: a file path, or a logical
	// name such as "stdin" or "compression payload".
	Source string

	// Err is the underlying cause.
	Err error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Source, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Is reports ErrInput as a match so callers can classify without
// errors.As.
func (e *InputError) Is(target error) bool { return target == ErrInput }

// Input wraps err as an [InputError] for source. Returns nil when err
// is nil.
func Input(source string, err error) error {
	if err == nil {
		return nil
	}
	return &InputError{Source: source, Err: err}
}

// InvalidArgument formats an error that wraps [ErrInvalidArgument].
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
