// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package pow

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/helix-storage/helix/lib/fault"
)

// DigestSize is the byte length of a SHA-256 digest.
const DigestSize = sha256.Size

// Digest is a SHA-256 digest of data || decimal(nonce).
type Digest [DigestSize]byte

// String returns the lowercase hex form used in records.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest parses a 64-character hex string.
func ParseDigest(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != DigestSize {
		return digest, fmt.Errorf("digest is %d bytes, want %d", len(decoded), DigestSize)
	}
	copy(digest[:], decoded)
	return digest, nil
}

// HashNonce computes SHA-256 over data followed by the base-10 form of
// nonce.
func HashNonce(data []byte, nonce uint64) Digest {
	buffer := make([]byte, 0, len(data)+20)
	buffer = append(buffer, data...)
	buffer = strconv.AppendUint(buffer, nonce, 10)
	return sha256.Sum256(buffer)
}

// Record is the immutable result of a successful search.
type Record struct {
	// Nonce is the smallest non-negative integer whose digest
	// satisfies the policy.
	Nonce uint64 `json:"nonce"`

	// Hash is the lowercase hex digest of data || decimal(Nonce).
	Hash string `json:"hash"`

	// Difficulty is the policy token the search ran under.
	Difficulty string `json:"difficulty"`

	// Policy names how Difficulty is interpreted. Records written by
	// tools that predate the field leave it empty; such records can
	// only be verified with an explicitly supplied policy.
	Policy PolicyKind `json:"policy,omitempty"`

	// TimeTakenSeconds is the wall-clock search duration, present only
	// when the search ran [WithTiming].
	TimeTakenSeconds *float64 `json:"time_taken_seconds,omitempty"`
}

// PolicyFor reconstructs the policy named by the record.
func (r *Record) PolicyFor() (Policy, error) {
	if r.Policy == "" {
		return nil, fault.InvalidArgument("proof-of-work record does not name its policy; supply one explicitly")
	}
	return ParsePolicy(r.Policy, r.Difficulty)
}
