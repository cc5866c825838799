// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/helix-storage/helix/lib/fault"
)

// ParseHeader strips JSONC comments and trailing commas from data and
// returns the result as compact JSON. The header must be an object.
func ParseHeader(data []byte) (json.RawMessage, error) {
	stripped := jsonc.ToJSON(data)
	var compact bytes.Buffer
	if err := json.Compact(&compact, stripped); err != nil {
		return nil, fmt.Errorf("parsing header: %w", err)
	}
	if compact.Len() == 0 || compact.Bytes()[0] != '{' {
		return nil, errors.New("header must be a JSON object")
	}
	return compact.Bytes(), nil
}

// ReadHeader reads and parses a JSONC header file.
func ReadHeader(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.Input(path, err)
	}
	header, err := ParseHeader(data)
	if err != nil {
		return nil, fault.Input(path, err)
	}
	return header, nil
}

// Paths names the five assembler input files.
type Paths struct {
	Header          string
	ChunkedData     string
	Compression     string
	ErrorCorrection string
	ProofOfWork     string
}

// ReadInputs reads the five input files. A file that does not exist is
// left absent so [Assemble] reports it as a [MissingArtifactError];
// any other read failure is an input error. A header that is not
// valid JSONC is passed through unchanged for Assemble to reject.
func ReadInputs(paths Paths) (Inputs, error) {
	var inputs Inputs
	files := []struct {
		path  string
		value *json.RawMessage
	}{
		{paths.Header, &inputs.Header},
		{paths.ChunkedData, &inputs.ChunkedData},
		{paths.Compression, &inputs.Compression},
		{paths.ErrorCorrection, &inputs.ErrorCorrection},
		{paths.ProofOfWork, &inputs.ProofOfWork},
	}
	for _, file := range files {
		if file.path == "" {
			continue
		}
		data, err := os.ReadFile(file.path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return Inputs{}, fault.Input(file.path, err)
		}
		*file.value = data
	}

	if header, err := ParseHeader(inputs.Header); err == nil {
		inputs.Header = header
	}
	return inputs, nil
}
