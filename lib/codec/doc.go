// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Helix's CBOR encoding configuration.
//
// Artifacts and manifests are JSON documents. CBOR is an alternative
// on-disk form for manifests: the encoder uses Core Deterministic
// Encoding (RFC 8949 §4.2), so the same manifest always produces
// identical bytes regardless of how its JSON was formatted.
//
// Helix types carry `json` struct tags only. fxamacker/cbor falls back
// to them when `cbor` tags are absent, so one tag governs both formats.
//
// [FromJSON] and [ToJSON] convert whole documents between the two
// forms. Numbers survive the trip as integers where they fit in 64
// bits, and as floats otherwise.
package codec
