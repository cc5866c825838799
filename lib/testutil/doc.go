// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Helix packages.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that tests
// exercising cancellable work, such as a proof-of-work search under a
// policy nothing satisfies, fail instead of hanging.
//
// [WriteFile] and [ReadJSON] set up and inspect on-disk artifacts in a
// t.TempDir().
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no Helix-internal dependencies.
package testutil
