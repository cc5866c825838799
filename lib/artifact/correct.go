// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"fmt"
	"sort"
	"sync"

	"github.com/helix-storage/helix/lib/fault"
)

// Corrector produces forward error-correction data keyed to chunk
// boundaries and repairs chunks from it.
type Corrector interface {
	// Name is the registry key, e.g. "placeholder".
	Name() string

	// Encode computes parity data for chunks.
	Encode(chunks []string) (string, error)

	// Decode returns repaired chunks given possibly damaged chunks and
	// the parity data Encode produced for the originals.
	Decode(chunks []string, parity string) ([]string, error)
}

// PlaceholderParity is the fixed string the placeholder corrector
// emits.
const PlaceholderParity = "Reed-Solomon-encoded-data"

// Placeholder is a stand-in corrector. It emits [PlaceholderParity]
// and cannot repair anything: Decode returns the chunks unchanged.
type Placeholder struct{}

func (Placeholder) Name() string { return "placeholder" }

func (Placeholder) Encode([]string) (string, error) { return PlaceholderParity, nil }

func (Placeholder) Decode(chunks []string, parity string) ([]string, error) {
	if parity != PlaceholderParity {
		return nil, fault.InvalidArgument("placeholder corrector cannot decode parity %q", parity)
	}
	return append([]string(nil), chunks...), nil
}

var (
	correctorsMutex sync.RWMutex
	correctors      = map[string]Corrector{"placeholder": Placeholder{}}
)

// RegisterCorrector makes corrector available under its name,
// replacing any previous registration.
func RegisterCorrector(corrector Corrector) {
	correctorsMutex.Lock()
	defer correctorsMutex.Unlock()
	correctors[corrector.Name()] = corrector
}

// LookupCorrector returns the corrector registered under name. The
// empty string selects the placeholder.
func LookupCorrector(name string) (Corrector, error) {
	if name == "" {
		name = "placeholder"
	}
	correctorsMutex.RLock()
	defer correctorsMutex.RUnlock()
	corrector, ok := correctors[name]
	if !ok {
		names := make([]string, 0, len(correctors))
		for registered := range correctors {
			names = append(names, registered)
		}
		sort.Strings(names)
		return nil, fault.InvalidArgument("unknown error-correction codec %q (registered: %v)", name, names)
	}
	return corrector, nil
}

// ErrorCorrection is the error corrector's artifact payload.
type ErrorCorrection struct {
	Data string `json:"error_correction_data"`
}

// Correct encodes chunks with corrector.
func Correct(chunks []string, corrector Corrector) (*ErrorCorrection, error) {
	parity, err := corrector.Encode(chunks)
	if err != nil {
		return nil, fmt.Errorf("%s error correction: %w", corrector.Name(), err)
	}
	return &ErrorCorrection{Data: parity}, nil
}

// CorrectArtifact encodes chunks and wraps the result as a
// [KindErrorCorrectionData] artifact.
func CorrectArtifact(chunks []string, corrector Corrector) (Artifact, error) {
	correction, err := Correct(chunks, corrector)
	if err != nil {
		return Artifact{}, err
	}
	return New(KindErrorCorrectionData, correction)
}
