// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the helix CLI.
//
// The central type is [Command]: a named subcommand with optional
// nested [Command.Subcommands], a params struct whose tagged fields
// become flags ([BindFlags]), and a Run function. [Command.Execute]
// handles subcommand routing, flag parsing, logger construction, and
// structured help output.
//
// Unknown subcommands and flags get a "did you mean" suggestion when
// a known name is within Levenshtein distance 3.
//
// Commands report failures as categorized [ToolError] values and
// handled non-zero exits as [ExitError]; [ExitCode] maps either to a
// process exit status.
package cli
