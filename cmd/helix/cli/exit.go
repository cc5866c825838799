// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// ExitError signals a non-zero exit without an extra error message:
// the command has already written its own output, as verify does for
// a failed report.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// ExitCode maps an error returned by [Command.Execute] to a process
// exit status and reports whether the error still needs printing.
// Validation errors exit 2, an [ExitError] exits with its own code,
// and everything else exits 1.
func ExitCode(err error) (code int, report bool) {
	if err == nil {
		return 0, false
	}
	var exitError *ExitError
	if errors.As(err, &exitError) {
		return exitError.Code, false
	}
	var toolError *ToolError
	if errors.As(err, &toolError) && toolError.Category == CategoryValidation {
		return 2, true
	}
	return 1, true
}
