// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/helix-storage/helix/lib/manifest"
	"github.com/helix-storage/helix/lib/pow"
)

func buildSample(t *testing.T) *manifest.Manifest {
	t.Helper()
	result, err := Build(context.Background(), "sample", sampleText, Options{ChunkSize: 7, Policy: testPolicy(t)})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return result.Manifest
}

func checkByName(t *testing.T, report *Report, name string) Check {
	t.Helper()
	for _, check := range report.Checks {
		if check.Name == name {
			return check
		}
	}
	t.Fatalf("report has no %s check: %+v", name, report.Checks)
	return Check{}
}

func TestVerifyBuiltManifest(t *testing.T) {
	report, err := Verify(context.Background(), buildSample(t), VerifyOptions{Minimal: true})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !report.OK() || report.Err() != nil {
		t.Fatalf("report = %+v", report.Checks)
	}
	names := []string{CheckStructure, CheckCompression, CheckErrorCorrection, CheckProofOfWork, CheckMinimality}
	if len(report.Checks) != len(names) {
		t.Fatalf("ran %d checks, want %d", len(report.Checks), len(names))
	}
	for index, name := range names {
		if report.Checks[index].Name != name {
			t.Errorf("check %d = %s, want %s", index, report.Checks[index].Name, name)
		}
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*manifest.Manifest)
		failed string
	}{
		{"chunks edited", func(m *manifest.Manifest) {
			m.Data.ChunkedData = json.RawMessage(`["tampered"]`)
		}, CheckCompression},
		{"parity replaced", func(m *manifest.Manifest) {
			m.ErrorCorrection = json.RawMessage(`{"error_correction_data":"other"}`)
		}, CheckErrorCorrection},
		{"nonce changed", func(m *manifest.Manifest) {
			var record pow.Record
			json.Unmarshal(m.BlockchainEnrollment.ProofOfWork, &record)
			record.Nonce++
			m.BlockchainEnrollment.ProofOfWork, _ = json.Marshal(record)
		}, CheckProofOfWork},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := buildSample(t)
			test.mutate(m)

			report, err := Verify(context.Background(), m, VerifyOptions{})
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if report.OK() {
				t.Fatal("tampered manifest verified")
			}
			if check := checkByName(t, report, test.failed); check.OK {
				t.Errorf("%s check passed: %+v", test.failed, report.Checks)
			}
			if !errors.Is(report.Err(), ErrVerification) {
				t.Errorf("Err() = %v, want ErrVerification", report.Err())
			}
		})
	}
}

func TestVerifyStructuralFailure(t *testing.T) {
	m := buildSample(t)
	m.Compression = nil
	report, err := Verify(context.Background(), m, VerifyOptions{})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(report.Checks) != 1 || report.Checks[0].Name != CheckStructure || report.Checks[0].OK {
		t.Errorf("report = %+v, want single failed structure check", report.Checks)
	}
}

func TestVerifyLegacyRecordUsesFallbackPolicy(t *testing.T) {
	m := buildSample(t)
	var record pow.Record
	if err := json.Unmarshal(m.BlockchainEnrollment.ProofOfWork, &record); err != nil {
		t.Fatal(err)
	}
	record.Policy = ""
	m.BlockchainEnrollment.ProofOfWork, _ = json.Marshal(record)

	report, err := Verify(context.Background(), m, VerifyOptions{})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if checkByName(t, report, CheckProofOfWork).OK {
		t.Error("record without policy verified with no fallback")
	}

	report, err = Verify(context.Background(), m, VerifyOptions{Policy: testPolicy(t)})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !report.OK() {
		t.Errorf("fallback policy report = %+v", report.Checks)
	}
}
