// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

// Package fault defines the error kinds shared by every Helix stage.
//
// Two kinds cross package boundaries:
//
//   - [InputError]: a source could not be obtained. The file is
//     missing, unreadable, or its contents are malformed for the stage
//     reading it. Matches [ErrInput] under errors.Is.
//   - [ErrInvalidArgument]: a caller-supplied parameter is out of
//     range or unparseable (non-positive chunk size, malformed
//     difficulty token, unknown codec name). Build these with
//     [InvalidArgument].
//
// Stage-specific kinds live with their stage: manifest assembly
// reports [manifest.MissingArtifactError] and the proof-of-work search
// reports [pow.ErrCancelled]. None of these are retried anywhere; the
// CLI maps them to exit codes at the process boundary.
package fault
