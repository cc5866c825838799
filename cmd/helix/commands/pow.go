// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/helix-storage/helix/cmd/helix/cli"
	"github.com/helix-storage/helix/lib/artifact"
	"github.com/helix-storage/helix/lib/config"
	"github.com/helix-storage/helix/lib/fault"
	"github.com/helix-storage/helix/lib/pipeline"
	"github.com/helix-storage/helix/lib/pow"
)

// SearchOptions are the proof-of-work flags shared by pow and build.
// Empty or negative values defer to the configuration file.
type SearchOptions struct {
	Policy     string `json:"-" flag:"policy" desc:"difficulty policy: prefix or threshold (default from config)"`
	Difficulty string `json:"-" flag:"difficulty" desc:"policy token, e.g. 00000 (default from config)"`
	Workers    int    `json:"-" flag:"workers" desc:"parallel search workers, 0 for one per CPU (default from config)" default:"-1"`
	Timeout    string `json:"-" flag:"timeout" desc:"abandon the search after this duration, e.g. 30s (default from config)"`
	Timed      bool   `json:"-" flag:"timed" desc:"record time_taken_seconds in the proof of work"`
}

// apply overlays the flags onto cfg and revalidates it.
func (o *SearchOptions) apply(cfg *config.Config) error {
	if o.Policy != "" {
		cfg.ProofOfWork.Policy = o.Policy
	}
	if o.Difficulty != "" {
		cfg.ProofOfWork.Difficulty = o.Difficulty
	}
	if o.Workers >= 0 {
		cfg.ProofOfWork.Workers = o.Workers
	}
	if o.Timeout != "" {
		cfg.ProofOfWork.Timeout = o.Timeout
	}
	if o.Timed {
		cfg.ProofOfWork.Timed = true
	}
	return cfg.Validate()
}

type powParams struct {
	OutputOptions
	SearchOptions
}

func powCommand() *cli.Command {
	var params powParams
	command := &cli.Command{
		Name:    "pow",
		Summary: "Search for a proof-of-work nonce",
		Description: `Find the smallest nonce whose SHA-256 digest over the input
followed by the decimal nonce satisfies the difficulty policy.

When the input is a compression artifact, the proof binds to its
compressed_data string, which is what a manifest verifies against.
Any other file is hashed byte for byte.

The search has no upper bound: a difficulty that no digest satisfies
runs until --timeout or an interrupt.`,
		Usage: "helix pow <file> [flags]",
		Examples: []cli.Example{
			{Description: "Bind a proof to a compressed payload", Command: "helix pow compressed_data.json"},
			{Description: "Numeric threshold with four workers", Command: "helix pow data.bin --policy threshold --difficulty 0000ffff --workers 4"},
		},
		Params: func() any { params = powParams{}; return &params },
	}
	command.Run = func(ctx context.Context, args []string, logger *slog.Logger) error {
		if err := command.RequireArgs(args, 1, 1); err != nil {
			return err
		}
		cfg, err := params.load()
		if err != nil {
			return err
		}
		if err := params.SearchOptions.apply(cfg); err != nil {
			return err
		}
		policy, err := cfg.ProofOfWork.ParsePolicy()
		if err != nil {
			return err
		}
		timeout, err := cfg.ProofOfWork.TimeoutDuration()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fault.Input(args[0], err)
		}
		target := powTarget(data)

		options := []pow.Option{pow.WithWorkers(cfg.ProofOfWork.Workers)}
		if cfg.ProofOfWork.Timed {
			options = append(options, pow.WithTiming())
		}
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		logger.Debug("searching",
			"source", args[0],
			"policy", string(policy.Kind()),
			"difficulty", policy.Token(),
			"target_bytes", len(target),
		)
		record, err := pow.Search(ctx, target, policy, options...)
		if err != nil {
			return err
		}
		logger.Debug("found nonce", "nonce", record.Nonce, "hash", record.Hash)

		proof, err := artifact.New(artifact.KindProofOfWork, record)
		if err != nil {
			return err
		}
		_, err = params.writeArtifact(cfg, proof, fmt.Sprintf("Proof of work (nonce %d)", record.Nonce))
		return err
	}
	return command
}

// powTarget returns the bytes a proof over data binds to: the
// compressed_data string for a compression artifact, else data.
func powTarget(data []byte) []byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return data
	}
	var compression artifact.Compression
	if err := json.Unmarshal(trimmed, &compression); err != nil || compression.CompressedData == "" {
		return data
	}
	return pipeline.BindingTarget(&compression)
}

type hashParams struct {
	ConfigOptions
	cli.JSONOutput
	Algorithm string `json:"-" flag:"algorithm" desc:"sha256, blake3, or blake2b (default from config)"`
}

type hashResult struct {
	Path      string `json:"path"`
	Algorithm string `json:"algorithm"`
	Digest    string `json:"digest"`
}

func hashCommand() *cli.Command {
	var params hashParams
	command := &cli.Command{
		Name:    "hash",
		Summary: "Print the digest of a file",
		Description: `Stream a file through the hash in 8192-byte blocks and print its
lowercase hex digest. Nothing is written to disk.`,
		Usage: "helix hash <file> [flags]",
		Examples: []cli.Example{
			{Command: "helix hash dna_digital_storage.json"},
			{Command: "helix hash large.bin --algorithm blake3"},
		},
		Params: func() any { params = hashParams{}; return &params },
	}
	command.Run = func(ctx context.Context, args []string, logger *slog.Logger) error {
		if err := command.RequireArgs(args, 1, 1); err != nil {
			return err
		}
		cfg, err := params.load()
		if err != nil {
			return err
		}
		name := params.Algorithm
		if name == "" {
			name = cfg.Hash.Algorithm
		}
		algorithm, err := artifact.ParseAlgorithm(name)
		if err != nil {
			return err
		}
		digest, err := artifact.HashFile(args[0], algorithm)
		if err != nil {
			return err
		}
		if done, err := params.EmitJSON(hashResult{Path: args[0], Algorithm: string(algorithm), Digest: digest}); done || err != nil {
			return err
		}
		fmt.Fprintf(cli.Stdout, "%s Hash: %s\n", algorithm.Label(), digest)
		return nil
	}
	return command
}
