// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/helix-storage/helix/lib/artifact"
	"github.com/helix-storage/helix/lib/fault"
)

// Input names, in manifest order.
const (
	InputHeader          = "header"
	InputChunkedData     = "chunked_data"
	InputCompression     = "compressed_data"
	InputErrorCorrection = "error_correction_data"
	InputProofOfWork     = "proof_of_work"
)

// ErrMissingArtifact is matched by every [MissingArtifactError].
var ErrMissingArtifact = errors.New("missing artifact")

// MissingArtifactError reports the first assembler input, in manifest
// order, that is absent or unusable.
type MissingArtifactError struct {
	// Input is one of the Input* names.
	Input string

	// Reason says what was wrong: "absent", "null", and so on.
	Reason string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("missing artifact %s: %s", e.Input, e.Reason)
}

func (e *MissingArtifactError) Is(target error) bool { return target == ErrMissingArtifact }

// Inputs are the five raw JSON documents a manifest is built from. A
// nil or empty field is absent.
type Inputs struct {
	Header          json.RawMessage
	ChunkedData     json.RawMessage
	Compression     json.RawMessage
	ErrorCorrection json.RawMessage
	ProofOfWork     json.RawMessage
}

// Manifest is the DNA digital storage file. Field order is the
// serialized key order.
type Manifest struct {
	Header               json.RawMessage `json:"header"`
	Data                 Data            `json:"data"`
	Compression          json.RawMessage `json:"compression"`
	ErrorCorrection      json.RawMessage `json:"error_correction"`
	BlockchainEnrollment Enrollment      `json:"blockchain_enrollment"`
}

// Data wraps the chunked payload.
type Data struct {
	ChunkedData json.RawMessage `json:"chunked_data"`
}

// Enrollment wraps the proof-of-work record.
type Enrollment struct {
	ProofOfWork json.RawMessage `json:"proof_of_work"`
}

// Assemble validates inputs and binds them into a manifest.
func Assemble(inputs Inputs) (*Manifest, error) {
	fields := []struct {
		name  string
		value *json.RawMessage
	}{
		{InputHeader, &inputs.Header},
		{InputChunkedData, &inputs.ChunkedData},
		{InputCompression, &inputs.Compression},
		{InputErrorCorrection, &inputs.ErrorCorrection},
		{InputProofOfWork, &inputs.ProofOfWork},
	}
	for _, field := range fields {
		trimmed, err := checkInput(field.name, *field.value)
		if err != nil {
			return nil, err
		}
		*field.value = trimmed
	}

	return &Manifest{
		Header:               inputs.Header,
		Data:                 Data{ChunkedData: inputs.ChunkedData},
		Compression:          inputs.Compression,
		ErrorCorrection:      inputs.ErrorCorrection,
		BlockchainEnrollment: Enrollment{ProofOfWork: inputs.ProofOfWork},
	}, nil
}

func checkInput(name string, value json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(value)
	switch {
	case len(trimmed) == 0:
		return nil, &MissingArtifactError{Input: name, Reason: "absent"}
	case !json.Valid(trimmed):
		return nil, &MissingArtifactError{Input: name, Reason: "not valid JSON"}
	case bytes.Equal(trimmed, []byte("null")):
		return nil, &MissingArtifactError{Input: name, Reason: "null"}
	case name == InputHeader && trimmed[0] != '{':
		return nil, &MissingArtifactError{Input: name, Reason: "not a JSON object"}
	}
	return json.RawMessage(trimmed), nil
}

// Inputs returns the documents m was assembled from.
func (m *Manifest) Inputs() Inputs {
	return Inputs{
		Header:          m.Header,
		ChunkedData:     m.Data.ChunkedData,
		Compression:     m.Compression,
		ErrorCorrection: m.ErrorCorrection,
		ProofOfWork:     m.BlockchainEnrollment.ProofOfWork,
	}
}

// FromArtifacts maps tagged producer outputs to assembler inputs by
// kind. Each kind may appear at most once. Kinds that are not supplied
// stay absent and are reported by [Assemble].
func FromArtifacts(header json.RawMessage, artifacts ...artifact.Artifact) (Inputs, error) {
	inputs := Inputs{Header: header}
	for _, item := range artifacts {
		var slot *json.RawMessage
		switch item.Kind {
		case artifact.KindChunkedData:
			slot = &inputs.ChunkedData
		case artifact.KindCompressedData:
			slot = &inputs.Compression
		case artifact.KindErrorCorrectionData:
			slot = &inputs.ErrorCorrection
		case artifact.KindProofOfWork:
			slot = &inputs.ProofOfWork
		default:
			return Inputs{}, fault.InvalidArgument("unknown artifact kind %q", item.Kind)
		}
		if *slot != nil {
			return Inputs{}, fault.InvalidArgument("duplicate %s artifact", item.Kind)
		}
		*slot = item.Payload
	}
	return inputs, nil
}
