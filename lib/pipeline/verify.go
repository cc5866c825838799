// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/helix-storage/helix/lib/artifact"
	"github.com/helix-storage/helix/lib/manifest"
	"github.com/helix-storage/helix/lib/pow"
)

// Check names.
const (
	CheckStructure       = "structure"
	CheckCompression     = "compression"
	CheckErrorCorrection = "error_correction"
	CheckProofOfWork     = "proof_of_work"
	CheckMinimality      = "minimality"
)

// ErrVerification is returned by [Report.Err] when any check failed.
var ErrVerification = errors.New("verification failed")

// VerifyOptions configures [Verify].
type VerifyOptions struct {
	// Corrector recomputes the error-correction data. Nil means the
	// placeholder.
	Corrector artifact.Corrector

	// Policy is used for proof-of-work records that do not name
	// their policy. Records that do are checked under their own.
	Policy pow.Policy

	// Minimal also proves no smaller nonce qualifies. This repeats
	// the whole search.
	Minimal bool
}

// Check is one named verification result.
type Check struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// Report lists every check [Verify] ran, in order.
type Report struct {
	Checks []Check `json:"checks"`
}

// OK reports whether every check passed.
func (r *Report) OK() bool {
	for _, check := range r.Checks {
		if !check.OK {
			return false
		}
	}
	return true
}

// Err returns nil if every check passed, and otherwise an error
// wrapping [ErrVerification] that lists the failures.
func (r *Report) Err() error {
	var failures []string
	for _, check := range r.Checks {
		if !check.OK {
			failures = append(failures, check.Name+": "+check.Detail)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrVerification, strings.Join(failures, "; "))
}

func (r *Report) add(name string, err error, passDetail string) bool {
	check := Check{Name: name, OK: err == nil, Detail: passDetail}
	if err != nil {
		check.Detail = err.Error()
	}
	r.Checks = append(r.Checks, check)
	return check.OK
}

// Verify cross-checks the artifacts bound in m. Failed checks are
// recorded in the report; the error is non-nil only when ctx ends
// during the minimality rescan.
func Verify(ctx context.Context, m *manifest.Manifest, options VerifyOptions) (*Report, error) {
	report := &Report{}

	if _, err := manifest.Assemble(m.Inputs()); err != nil {
		report.add(CheckStructure, err, "")
		return report, nil
	}
	var chunks []string
	if err := json.Unmarshal(m.Data.ChunkedData, &chunks); err != nil {
		report.add(CheckStructure, fmt.Errorf("chunked_data is not an array of strings: %w", err), "")
		return report, nil
	}
	var compression artifact.Compression
	if err := json.Unmarshal(m.Compression, &compression); err != nil || compression.CompressedData == "" {
		report.add(CheckStructure, errors.New("compression has no compressed_data string"), "")
		return report, nil
	}
	report.add(CheckStructure, nil, fmt.Sprintf("%d chunks", len(chunks)))

	report.add(CheckCompression, checkCompression(&compression, chunks), "payload matches chunks")
	report.add(CheckErrorCorrection, checkErrorCorrection(m.ErrorCorrection, chunks, options.Corrector), "parity matches chunks")

	record, policy, err := proofOfWork(m.BlockchainEnrollment.ProofOfWork, options.Policy)
	if err == nil {
		err = pow.VerifyWith(BindingTarget(&compression), record, policy)
	}
	if !report.add(CheckProofOfWork, err, "") {
		return report, nil
	}
	report.Checks[len(report.Checks)-1].Detail = fmt.Sprintf("nonce %d satisfies %s %q", record.Nonce, policy.Kind(), policy.Token())

	if options.Minimal {
		err := pow.VerifyMinimal(ctx, BindingTarget(&compression), record, policy)
		if errors.Is(err, pow.ErrCancelled) {
			return report, err
		}
		report.add(CheckMinimality, err, "no smaller nonce qualifies")
	}
	return report, nil
}

func checkCompression(compression *artifact.Compression, chunks []string) error {
	payload, err := compression.Decompress()
	if err != nil {
		return err
	}
	if string(payload) != artifact.Join(chunks) {
		return fmt.Errorf("decompressed payload (%d bytes) differs from joined chunks", len(payload))
	}
	return nil
}

func checkErrorCorrection(raw json.RawMessage, chunks []string, corrector artifact.Corrector) error {
	if corrector == nil {
		corrector = artifact.Placeholder{}
	}
	var correction artifact.ErrorCorrection
	if err := json.Unmarshal(raw, &correction); err != nil {
		return fmt.Errorf("error_correction is not an object: %w", err)
	}
	want, err := corrector.Encode(chunks)
	if err != nil {
		return err
	}
	if correction.Data != want {
		return fmt.Errorf("%s parity does not match chunks", corrector.Name())
	}
	return nil
}

func proofOfWork(raw json.RawMessage, fallback pow.Policy) (*pow.Record, pow.Policy, error) {
	var record pow.Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, nil, fmt.Errorf("proof_of_work is not a record: %w", err)
	}
	if record.Policy == "" && fallback != nil {
		return &record, fallback, nil
	}
	policy, err := record.PolicyFor()
	if err != nil {
		return nil, nil, err
	}
	return &record, policy, nil
}
