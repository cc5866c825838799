// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/helix-storage/helix/lib/atomicfile"
	"github.com/helix-storage/helix/lib/fault"
)

// Kind tags an artifact with the pipeline stage that produced it. The
// values double as the default output file stems.
type Kind string

const (
	KindChunkedData         Kind = "chunked_data"
	KindCompressedData      Kind = "compressed_data"
	KindErrorCorrectionData Kind = "error_correction_data"
	KindProofOfWork         Kind = "proof_of_work"
)

// Kinds lists every artifact kind in manifest order.
var Kinds = []Kind{KindChunkedData, KindCompressedData, KindErrorCorrectionData, KindProofOfWork}

// ParseKind validates a kind name.
func ParseKind(name string) (Kind, error) {
	for _, kind := range Kinds {
		if string(kind) == name {
			return kind, nil
		}
	}
	return "", fault.InvalidArgument("unknown artifact kind %q", name)
}

// FileName returns the default output file name for the kind, e.g.
// "chunked_data.json".
func (k Kind) FileName() string {
	return string(k) + ".json"
}

// Artifact is a producer's output: a kind tag and an opaque JSON
// payload. Consumers only require that the payload is valid JSON.
type Artifact struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// New marshals value as the payload of a kind artifact.
func New(kind Kind, value any) (Artifact, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return Artifact{}, fmt.Errorf("encoding %s artifact: %w", kind, err)
	}
	return Artifact{Kind: kind, Payload: bytes.TrimSuffix(buffer.Bytes(), []byte("\n"))}, nil
}

// Decode unmarshals the payload into target.
func (a Artifact) Decode(target any) error {
	if err := json.Unmarshal(a.Payload, target); err != nil {
		return fault.Input(string(a.Kind)+" artifact", err)
	}
	return nil
}

// Encode renders value as the indented JSON written to artifact files.
// HTML characters are left unescaped so chunk text stays readable.
func Encode(value any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// WriteFile atomically writes the artifact's payload to path.
func WriteFile(path string, a Artifact) error {
	data, err := Encode(a.Payload)
	if err != nil {
		return fmt.Errorf("encoding %s artifact: %w", a.Kind, err)
	}
	return atomicfile.WriteFile(path, data, 0o644)
}

// ReadFile reads a JSON payload from path and tags it with kind. The
// payload must be valid JSON; its shape is not checked.
func ReadFile(path string, kind Kind) (Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Artifact{}, fault.Input(path, err)
	}
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return Artifact{}, fault.Input(path, fmt.Errorf("%s artifact is not valid JSON", kind))
	}
	return Artifact{Kind: kind, Payload: trimmed}, nil
}
