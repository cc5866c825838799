// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build information for the helix binary.
//
// [GitCommit], [GitDirty], [BuildTime], and [Version] are injected at
// build time with -ldflags -X and default to "unknown" / "0.1.0-dev"
// in development builds and tests.
package version
