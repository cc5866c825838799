// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest binds a header and the four producer artifacts into
// a single DNA digital storage file.
//
// The manifest shape is fixed:
//
//	{
//	  "header": {...},
//	  "data": {"chunked_data": ...},
//	  "compression": ...,
//	  "error_correction": ...,
//	  "blockchain_enrollment": {"proof_of_work": ...}
//	}
//
// [Assemble] checks structure only: every input present, non-null,
// and valid JSON, and the header an object. It never cross-validates
// the artifacts against each other; that is the job of the pipeline's
// verifier. Values are embedded byte-for-byte as supplied.
//
// [Write] is all-or-nothing: the file at the target path is either the
// complete manifest or untouched. Manifests can be written as indented
// JSON or deterministic CBOR, optionally encrypted with age. [Read]
// detects the encoding from content.
package manifest
