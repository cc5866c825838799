// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

// Package pow implements the proof-of-work search that anchors a Helix
// storage file.
//
// The search hashes data || decimal(nonce) with SHA-256 for nonce =
// 0, 1, 2, ... and returns the first nonce whose digest satisfies a
// difficulty [Policy]. The scan order is fixed, so identical data and
// policy always yield the identical [Record], and any party can verify
// a record by re-hashing once ([Verify]) or prove minimality by
// rescanning the prefix ([VerifyMinimal]).
//
// Two policies exist and are never inferred from a token's format:
//
//   - [PrefixPolicy]: the lowercase hex digest starts with a prefix.
//   - [ThresholdPolicy]: the digest, read as a 256-bit unsigned
//     integer, is strictly less than a hex threshold.
//
// The same token means different things under each: prefix "00000"
// constrains five leading nibbles, while threshold "00000" is zero and
// accepts nothing.
//
// The search is structured as a lazy producer ([Candidates]) and a
// cancellation-aware consumer ([Search]). The nonce space is unbounded
// in practice: there is no "not found" outcome, and a policy that no
// digest satisfies blocks until the context is cancelled. Callers that
// cannot wait forever must pass a context with a deadline; the search
// then returns an error wrapping [ErrCancelled] and never a partial
// record.
//
// [WithWorkers] splits the nonce space into strides scanned
// concurrently. Workers share a "smallest qualifying nonce so far"
// bound and stop once their stride passes it, so the parallel result
// is the same minimal nonce the sequential scan finds.
package pow
