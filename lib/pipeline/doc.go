// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline composes the artifact producers, the proof-of-work
// search, and the manifest assembler into a single in-memory build.
//
// [Build] runs two branches concurrently: chunk then error-correct,
// and compress then search for a proof of work. The proof of work is
// bound to the compressed representation: its data is the UTF-8 bytes
// of the compressed_data base64 string ([BindingTarget]). The
// manifest is assembled once both branches finish. Nothing is written
// to disk here; callers decide what to persist.
//
// [Verify] is the cross-check the assembler deliberately does not
// perform. It decompresses the payload and compares it with the
// chunks, recomputes the error-correction data, and re-verifies the
// proof of work against the binding target.
package pipeline
