// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

// Package artifact implements the stateless producers that turn a
// source document into the artifacts a Helix storage file binds
// together. Each producer is a single-pass transformation with a fixed
// JSON interchange shape:
//
//   - Chunking ([Chunk]): an ordered array of strings, each at most
//     the chunk size in characters (Unicode code points), the last
//     possibly shorter. Concatenating the array reproduces the source.
//
//   - Compression ([Compress]): {"compressed_data": "<base64>"}. The
//     default codec is gzip; zstd and lz4 frames are also available
//     and are recorded in a "codec" field that is omitted for gzip, so
//     the default shape matches older tooling exactly. Gzip output
//     carries no timestamp, so the same source always compresses to
//     the same bytes.
//
//   - Error correction ([Correct]): {"error_correction_data": "..."}.
//     The codec is pluggable through [Corrector]; the only built-in
//     corrector is a placeholder that emits a fixed marker string.
//
//   - File hashing ([HashFile]): a lowercase hex digest computed by
//     streaming the file in 8 KiB blocks. SHA-256 is the default;
//     BLAKE3 and BLAKE2b-256 are available for integrity checks that
//     do not need to interoperate with SHA-256 tooling.
//
// In memory, producer outputs travel as tagged [Artifact] values so
// the manifest assembler can bind them by [Kind] rather than by
// filename. On disk, only the payload is written ([WriteFile]).
package artifact
