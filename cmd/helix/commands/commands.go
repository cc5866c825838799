// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands defines the helix command tree.
package commands

import (
	"errors"
	"io/fs"

	"github.com/helix-storage/helix/cmd/helix/cli"
	"github.com/helix-storage/helix/lib/fault"
	"github.com/helix-storage/helix/lib/manifest"
	"github.com/helix-storage/helix/lib/pow"
)

// Root returns the top-level helix command.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "helix",
		Summary: "Assemble DNA digital storage manifests",
		Description: `helix turns a source document into the artifacts of a DNA digital
storage container (chunks, compressed payload, error-correction data,
and a proof-of-work record) and assembles them into one manifest.

Each producer is a subcommand that writes one artifact file. "build"
runs them all in memory and writes only the manifest.`,
		Subcommands: []*cli.Command{
			chunkCommand(),
			compressCommand(),
			eccCommand(),
			powCommand(),
			hashCommand(),
			assembleCommand(),
			buildCommand(),
			verifyCommand(),
			keygenCommand(),
			versionCommand(),
		},
	}
}

// Classify converts library errors into categorized [cli.ToolError]
// values. Errors that are already categorized, and [cli.ExitError],
// pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var toolError *cli.ToolError
	var exitError *cli.ExitError
	if errors.As(err, &toolError) || errors.As(err, &exitError) {
		return err
	}

	category := cli.CategoryInternal
	switch {
	case errors.Is(err, fault.ErrInvalidArgument):
		category = cli.CategoryValidation
	case errors.Is(err, manifest.ErrMissingArtifact):
		category = cli.CategoryNotFound
	case errors.Is(err, fault.ErrInput) && errors.Is(err, fs.ErrNotExist):
		category = cli.CategoryNotFound
	case errors.Is(err, fault.ErrInput):
		category = cli.CategoryValidation
	case errors.Is(err, pow.ErrCancelled):
		category = cli.CategoryTransient
	}
	return &cli.ToolError{Category: category, Err: err}
}
