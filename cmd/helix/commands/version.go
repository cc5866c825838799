// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/helix-storage/helix/cmd/helix/cli"
	"github.com/helix-storage/helix/lib/version"
)

type versionParams struct {
	cli.JSONOutput
	Hash bool `json:"-" flag:"hash" desc:"also print the SHA-256 of the running binary"`
}

type versionResult struct {
	Version    string `json:"version"`
	Info       string `json:"info"`
	BinaryHash string `json:"binary_hash,omitempty"`
	BinaryPath string `json:"binary_path,omitempty"`
}

func versionCommand() *cli.Command {
	var params versionParams
	command := &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Usage:   "helix version [flags]",
		Params:  func() any { params = versionParams{}; return &params },
	}
	command.Run = func(ctx context.Context, args []string, logger *slog.Logger) error {
		if err := command.RequireArgs(args, 0, 0); err != nil {
			return err
		}
		result := versionResult{Version: version.Short(), Info: version.Info()}
		if params.Hash {
			digest, path, err := version.SelfHash()
			if err != nil {
				return err
			}
			result.BinaryHash, result.BinaryPath = digest, path
		}
		if done, err := params.EmitJSON(result); done || err != nil {
			return err
		}
		fmt.Fprintf(cli.Stdout, "helix %s\n", version.Full())
		if result.BinaryHash != "" {
			fmt.Fprintf(cli.Stdout, "  Binary: %s\n  SHA256: %s\n", result.BinaryPath, result.BinaryHash)
		}
		return nil
	}
	return command
}
