// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strconv"

	"github.com/helix-storage/helix/cmd/helix/cli"
	"github.com/helix-storage/helix/lib/artifact"
	"github.com/helix-storage/helix/lib/fault"
)

type chunkParams struct {
	OutputOptions
}

func chunkCommand() *cli.Command {
	var params chunkParams
	command := &cli.Command{
		Name:    "chunk",
		Summary: "Split a text file into fixed-size chunks",
		Description: `Split a UTF-8 text file into consecutive chunks of at most
<chunk-size> characters and write them as a JSON array.`,
		Usage: "helix chunk <file> <chunk-size> [flags]",
		Examples: []cli.Example{
			{Description: "Chunk a document into 1024-character pieces", Command: "helix chunk report.txt 1024"},
		},
		Params: func() any { params = chunkParams{}; return &params },
	}
	command.Run = func(ctx context.Context, args []string, logger *slog.Logger) error {
		if err := command.RequireArgs(args, 2, 2); err != nil {
			return err
		}
		size, err := strconv.Atoi(args[1])
		if err != nil {
			return cli.Validation("chunk size %q is not an integer", args[1])
		}
		cfg, err := params.load()
		if err != nil {
			return err
		}
		text, err := artifact.ReadSource(args[0])
		if err != nil {
			return err
		}
		chunked, err := artifact.ChunkArtifact(text, size)
		if err != nil {
			return err
		}
		logger.Debug("chunked source", "source", args[0], "chunk_size", size)
		_, err = params.writeArtifact(cfg, chunked, "Chunked data")
		return err
	}
	return command
}

type compressParams struct {
	OutputOptions
	Codec string `json:"-" flag:"codec" desc:"compression codec: gzip, zstd, or lz4 (default from config)"`
}

func compressCommand() *cli.Command {
	var params compressParams
	command := &cli.Command{
		Name:    "compress",
		Summary: "Compress a file into a base64 payload",
		Description: `Compress a file and write the base64-encoded result as
{"compressed_data": ...}. Non-default codecs add a "codec" field.`,
		Usage: "helix compress <file> [flags]",
		Examples: []cli.Example{
			{Command: "helix compress report.txt"},
			{Description: "Use zstd instead of gzip", Command: "helix compress report.txt --codec zstd"},
		},
		Params: func() any { params = compressParams{}; return &params },
	}
	command.Run = func(ctx context.Context, args []string, logger *slog.Logger) error {
		if err := command.RequireArgs(args, 1, 1); err != nil {
			return err
		}
		cfg, err := params.load()
		if err != nil {
			return err
		}
		codecName := params.Codec
		if codecName == "" {
			codecName = cfg.Compression.Codec
		}
		codec, err := artifact.ParseCodec(codecName)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fault.Input(args[0], err)
		}
		compressed, compression, err := artifact.CompressArtifact(data, codec)
		if err != nil {
			return err
		}
		logger.Debug("compressed source",
			"source", args[0],
			"codec", string(codec),
			"input_bytes", len(data),
			"encoded_bytes", len(compression.CompressedData),
		)
		_, err = params.writeArtifact(cfg, compressed, "Compressed data")
		return err
	}
	return command
}

type eccParams struct {
	OutputOptions
	Codec string `json:"-" flag:"codec" desc:"registered error-correction codec (default from config)"`
}

func eccCommand() *cli.Command {
	var params eccParams
	command := &cli.Command{
		Name:    "ecc",
		Summary: "Produce error-correction data for an artifact",
		Description: `Produce {"error_correction_data": ...} for a chunk array or a
compression artifact. A chunk array is encoded chunk by chunk; a
compression artifact's compressed_data is treated as a single chunk.`,
		Usage: "helix ecc <artifact.json> [flags]",
		Examples: []cli.Example{
			{Command: "helix ecc chunked_data.json"},
		},
		Params: func() any { params = eccParams{}; return &params },
	}
	command.Run = func(ctx context.Context, args []string, logger *slog.Logger) error {
		if err := command.RequireArgs(args, 1, 1); err != nil {
			return err
		}
		cfg, err := params.load()
		if err != nil {
			return err
		}
		codecName := params.Codec
		if codecName == "" {
			codecName = cfg.ErrorCorrection.Codec
		}
		corrector, err := artifact.LookupCorrector(codecName)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fault.Input(args[0], err)
		}
		chunks, err := eccChunks(data)
		if err != nil {
			return fault.Input(args[0], err)
		}
		corrected, err := artifact.CorrectArtifact(chunks, corrector)
		if err != nil {
			return err
		}
		logger.Debug("encoded error correction", "source", args[0], "codec", corrector.Name(), "chunks", len(chunks))
		_, err = params.writeArtifact(cfg, corrected, "Error correction data")
		return err
	}
	return command
}

// eccChunks extracts the chunks an ecc input stands for.
func eccChunks(data []byte) ([]string, error) {
	data = bytes.TrimSpace(data)
	var chunks []string
	if err := json.Unmarshal(data, &chunks); err == nil && chunks != nil {
		return chunks, nil
	}
	var compression artifact.Compression
	if err := json.Unmarshal(data, &compression); err == nil && compression.CompressedData != "" {
		return []string{compression.CompressedData}, nil
	}
	return nil, errors.New("expected a chunk array or a compression artifact")
}
