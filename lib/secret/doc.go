// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds age identity material in memory outside the Go
// heap.
//
// A [Buffer] is an anonymous mmap region locked against swap (mlock)
// and excluded from core dumps (MADV_DONTDUMP). Close zeroes it before
// unmapping. Identity files for encrypted manifests are read straight
// into a Buffer with [ReadFile].
package secret
