// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"errors"
	"os"
	"unicode/utf8"

	"github.com/helix-storage/helix/lib/fault"
)

// ReadSource reads a source document. Sources are text: content that
// is not valid UTF-8 is rejected, since chunks travel as JSON strings
// and could not round-trip.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fault.Input(path, err)
	}
	if !utf8.Valid(data) {
		return "", fault.Input(path, errors.New("source is not valid UTF-8"))
	}
	return string(data), nil
}
