// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantReport bool
	}{
		{"nil", nil, 0, false},
		{"exit error", &ExitError{Code: 1}, 1, false},
		{"wrapped exit error", fmt.Errorf("verify: %w", &ExitError{Code: 3}), 3, false},
		{"validation", Validation("bad flag"), 2, true},
		{"not found", NotFound("no such file"), 1, true},
		{"internal", Internal("disk full"), 1, true},
		{"plain", errors.New("boom"), 1, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			code, report := ExitCode(test.err)
			if code != test.wantCode || report != test.wantReport {
				t.Errorf("ExitCode(%v) = (%d, %v), want (%d, %v)", test.err, code, report, test.wantCode, test.wantReport)
			}
		})
	}
}

func TestToolErrorUnwraps(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := Internal("writing output: %w", sentinel)
	if !errors.Is(err, sentinel) {
		t.Error("ToolError does not unwrap to the wrapped error")
	}
	if err.Error() != "writing output: sentinel" {
		t.Errorf("Error() = %q", err.Error())
	}
}
