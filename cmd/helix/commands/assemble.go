// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/helix-storage/helix/cmd/helix/cli"
	"github.com/helix-storage/helix/lib/artifact"
	"github.com/helix-storage/helix/lib/config"
	"github.com/helix-storage/helix/lib/manifest"
	"github.com/helix-storage/helix/lib/pipeline"
)

// ManifestOptions control how a manifest is encoded on disk.
type ManifestOptions struct {
	Format     string   `json:"-" flag:"format" desc:"manifest encoding: json or cbor (default from config)"`
	Recipients []string `json:"-" flag:"recipient,r" desc:"age public key to encrypt the manifest to (repeatable; adds to config)"`
}

// writeOptions merges the flags with cfg.
func (o *ManifestOptions) writeOptions(cfg *config.Config) (manifest.WriteOptions, error) {
	name := o.Format
	if name == "" {
		name = cfg.Output.Format
	}
	format, err := manifest.ParseFormat(name)
	if err != nil {
		return manifest.WriteOptions{}, err
	}
	recipients := append(append([]string(nil), cfg.Output.Recipients...), o.Recipients...)
	return manifest.WriteOptions{Format: format, Recipients: recipients}, nil
}

// writeManifest writes m with the merged options and prints the
// confirmation line.
func writeManifest(output *OutputOptions, manifestOptions *ManifestOptions, cfg *config.Config, m *manifest.Manifest) error {
	writeOptions, err := manifestOptions.writeOptions(cfg)
	if err != nil {
		return err
	}
	path, err := output.outputPath(cfg, manifest.DefaultFileName)
	if err != nil {
		return err
	}
	if err := manifest.Write(path, m, writeOptions); err != nil {
		return err
	}
	if _, err := output.EmitJSON(m); err != nil {
		return err
	}
	fmt.Fprintf(cli.Stdout, "Manifest written to %s\n", path)
	return nil
}

type assembleParams struct {
	OutputOptions
	ManifestOptions
}

func assembleCommand() *cli.Command {
	var params assembleParams
	command := &cli.Command{
		Name:    "assemble",
		Summary: "Combine a header and four artifacts into a manifest",
		Description: `Read the header and the four producer artifacts and write the
DNA digital storage manifest. Every input must exist and hold valid
JSON; the header may be JSONC. If any input is missing or invalid no
manifest is written.

The assembler does not cross-check the artifacts against each other;
use "helix verify" for that.`,
		Usage: "helix assemble <header> <chunks> <compressed> <ecc> <pow> [flags]",
		Examples: []cli.Example{
			{
				Command: "helix assemble header.json chunked_data.json compressed_data.json error_correction_data.json proof_of_work.json",
			},
			{
				Description: "Encrypted CBOR output",
				Command:     "helix assemble h.json c.json z.json e.json p.json --format cbor -r age1...",
			},
		},
		Params: func() any { params = assembleParams{}; return &params },
	}
	command.Run = func(ctx context.Context, args []string, logger *slog.Logger) error {
		if err := command.RequireArgs(args, 5, 5); err != nil {
			return err
		}
		cfg, err := params.load()
		if err != nil {
			return err
		}
		inputs, err := manifest.ReadInputs(manifest.Paths{
			Header:          args[0],
			ChunkedData:     args[1],
			Compression:     args[2],
			ErrorCorrection: args[3],
			ProofOfWork:     args[4],
		})
		if err != nil {
			return err
		}
		m, err := manifest.Assemble(inputs)
		if err != nil {
			return err
		}
		logger.Debug("assembled manifest", "header", args[0])
		return writeManifest(&params.OutputOptions, &params.ManifestOptions, cfg, m)
	}
	return command
}

type buildParams struct {
	OutputOptions
	ManifestOptions
	SearchOptions
	ChunkSize     int    `json:"-" flag:"chunk-size" desc:"chunk length in characters (default from config)"`
	Codec         string `json:"-" flag:"codec" desc:"compression codec (default from config)"`
	Correction    string `json:"-" flag:"ecc" desc:"error-correction codec (default from config)"`
	EmitArtifacts bool   `json:"-" flag:"emit-artifacts" desc:"also write the four artifact files into output.directory"`
}

func buildCommand() *cli.Command {
	var params buildParams
	command := &cli.Command{
		Name:    "build",
		Summary: "Produce every artifact and the manifest in one step",
		Description: `Chunk, compress, error-correct, and prove a source file in memory,
then write the assembled manifest. The proof of work binds to the
compressed_data string. Without a header argument a header describing
the source (name, size, chunk size, SHA-256) is generated.`,
		Usage: "helix build <file> [header] [flags]",
		Examples: []cli.Example{
			{Command: "helix build report.txt"},
			{Description: "Custom header, parallel search, keep intermediates", Command: "helix build report.txt header.jsonc --workers 0 --emit-artifacts"},
		},
		Params: func() any { params = buildParams{}; return &params },
	}
	command.Run = func(ctx context.Context, args []string, logger *slog.Logger) error {
		if err := command.RequireArgs(args, 1, 2); err != nil {
			return err
		}
		cfg, err := params.load()
		if err != nil {
			return err
		}
		if params.ChunkSize != 0 {
			cfg.ChunkSize = params.ChunkSize
		}
		if params.Codec != "" {
			cfg.Compression.Codec = params.Codec
		}
		if params.Correction != "" {
			cfg.ErrorCorrection.Codec = params.Correction
		}
		if err := params.SearchOptions.apply(cfg); err != nil {
			return err
		}
		options, err := pipelineOptions(cfg, logger)
		if err != nil {
			return err
		}

		text, err := artifact.ReadSource(args[0])
		if err != nil {
			return err
		}
		if len(args) == 2 {
			if options.Header, err = manifest.ReadHeader(args[1]); err != nil {
				return err
			}
		}

		result, err := pipeline.Build(ctx, filepath.Base(args[0]), text, options)
		if err != nil {
			return err
		}
		if params.EmitArtifacts {
			if err := cfg.EnsureOutputDirectory(); err != nil {
				return err
			}
			for _, produced := range result.Artifacts() {
				path := filepath.Join(cfg.Output.Directory, produced.Kind.FileName())
				if err := artifact.WriteFile(path, produced); err != nil {
					return cli.Internal("writing %s: %w", path, err)
				}
				logger.Debug("wrote artifact", "kind", string(produced.Kind), "path", path)
			}
		}
		return writeManifest(&params.OutputOptions, &params.ManifestOptions, cfg, result.Manifest)
	}
	return command
}

// pipelineOptions translates a validated configuration.
func pipelineOptions(cfg *config.Config, logger *slog.Logger) (pipeline.Options, error) {
	codec, err := artifact.ParseCodec(cfg.Compression.Codec)
	if err != nil {
		return pipeline.Options{}, err
	}
	corrector, err := artifact.LookupCorrector(cfg.ErrorCorrection.Codec)
	if err != nil {
		return pipeline.Options{}, err
	}
	policy, err := cfg.ProofOfWork.ParsePolicy()
	if err != nil {
		return pipeline.Options{}, err
	}
	timeout, err := cfg.ProofOfWork.TimeoutDuration()
	if err != nil {
		return pipeline.Options{}, err
	}
	workers := cfg.ProofOfWork.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return pipeline.Options{
		ChunkSize: cfg.ChunkSize,
		Codec:     codec,
		Corrector: corrector,
		Policy:    policy,
		Workers:   workers,
		Timeout:   timeout,
		Timed:     cfg.ProofOfWork.Timed,
		Logger:    logger,
	}, nil
}
