// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

// Package seal encrypts Helix storage files to age X25519 recipients.
//
// Ciphertext is the binary age format, written to disk as-is, so an
// encrypted manifest can also be opened with the age command-line
// tool. Private keys travel as [secret.Buffer] values and are never
// held on the Go heap longer than parsing requires.
package seal
