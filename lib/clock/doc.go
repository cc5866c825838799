// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable source of the current time.
//
// Code that stamps or measures time accepts a [Clock] instead of
// calling time.Now directly. Production code passes [Real]; tests pass
// [Fake], which stands still until [FakeClock.Advance] is called, so
// recorded durations and timestamps are exact.
package clock
