// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/helix-storage/helix/lib/artifact"
	"github.com/helix-storage/helix/lib/clock"
	"github.com/helix-storage/helix/lib/fault"
	"github.com/helix-storage/helix/lib/manifest"
	"github.com/helix-storage/helix/lib/pow"
)

// Options configures [Build].
type Options struct {
	// ChunkSize is the chunk length in characters. Required.
	ChunkSize int

	// Codec selects the compressor. Empty means gzip.
	Codec artifact.Codec

	// Corrector produces the error-correction data. Nil means the
	// placeholder.
	Corrector artifact.Corrector

	// Policy is the proof-of-work difficulty. Required.
	Policy pow.Policy

	// Workers is passed to [pow.WithWorkers]. 0 or 1 is sequential.
	Workers int

	// Timeout bounds the proof-of-work search. Zero is unbounded.
	Timeout time.Duration

	// Timed records the search duration in the proof-of-work record.
	Timed bool

	// Clock times the search when Timed is set. Nil means the real
	// clock.
	Clock clock.Clock

	// Header is the manifest header. Nil means [DefaultHeader].
	Header json.RawMessage

	// Logger receives progress messages. Nil discards them.
	Logger *slog.Logger
}

// Result is a completed build.
type Result struct {
	Manifest *manifest.Manifest

	Chunks          []string
	Compression     *artifact.Compression
	ProofOfWork     *pow.Record
	ChunkedData     artifact.Artifact
	Compressed      artifact.Artifact
	ErrorCorrection artifact.Artifact
	Proof           artifact.Artifact
}

// Artifacts returns the four producer artifacts in manifest order.
func (r *Result) Artifacts() []artifact.Artifact {
	return []artifact.Artifact{r.ChunkedData, r.Compressed, r.ErrorCorrection, r.Proof}
}

// BindingTarget returns the bytes the proof of work is computed over.
func BindingTarget(compression *artifact.Compression) []byte {
	return []byte(compression.CompressedData)
}

// Build produces every artifact for text and assembles the manifest.
// name identifies the source in logs and in the default header.
func Build(ctx context.Context, name, text string, options Options) (*Result, error) {
	if options.ChunkSize < 1 {
		return nil, fault.InvalidArgument("chunk size must be >= 1, got %d", options.ChunkSize)
	}
	if options.Policy == nil {
		return nil, fault.InvalidArgument("difficulty policy is required")
	}
	corrector := options.Corrector
	if corrector == nil {
		corrector = artifact.Placeholder{}
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("source", name)

	header := options.Header
	if header == nil {
		var err error
		header, err = DefaultHeader(name, text, options.ChunkSize)
		if err != nil {
			return nil, err
		}
	}

	result := &Result{}
	group, groupContext := errgroup.WithContext(ctx)

	group.Go(func() error {
		chunked, err := artifact.ChunkArtifact(text, options.ChunkSize)
		if err != nil {
			return err
		}
		if err := chunked.Decode(&result.Chunks); err != nil {
			return err
		}
		result.ChunkedData = chunked
		logger.Debug("chunked", "chunks", len(result.Chunks), "chunk_size", options.ChunkSize)

		corrected, err := artifact.CorrectArtifact(result.Chunks, corrector)
		if err != nil {
			return err
		}
		result.ErrorCorrection = corrected
		logger.Debug("error correction computed", "codec", corrector.Name())
		return nil
	})

	group.Go(func() error {
		compressed, compression, err := artifact.CompressArtifact([]byte(text), options.Codec)
		if err != nil {
			return err
		}
		result.Compressed = compressed
		result.Compression = compression
		logger.Debug("compressed", "encoded_bytes", len(compression.CompressedData))

		searchOptions := []pow.Option{pow.WithWorkers(max(options.Workers, 1))}
		if options.Timed {
			searchOptions = append(searchOptions, pow.WithTiming())
			if options.Clock != nil {
				searchOptions = append(searchOptions, pow.WithClock(options.Clock))
			}
		}
		searchContext := groupContext
		if options.Timeout > 0 {
			var cancel context.CancelFunc
			searchContext, cancel = context.WithTimeout(groupContext, options.Timeout)
			defer cancel()
		}

		logger.Info("searching for proof of work",
			"policy", options.Policy.Kind(),
			"difficulty", options.Policy.Token(),
			"workers", max(options.Workers, 1))
		record, err := pow.Search(searchContext, BindingTarget(compression), options.Policy, searchOptions...)
		if err != nil {
			return fmt.Errorf("proof of work: %w", err)
		}
		proof, err := artifact.New(artifact.KindProofOfWork, record)
		if err != nil {
			return err
		}
		result.ProofOfWork = record
		result.Proof = proof
		logger.Info("proof of work found", "nonce", record.Nonce, "hash", record.Hash)
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	inputs, err := manifest.FromArtifacts(header, result.Artifacts()...)
	if err != nil {
		return nil, err
	}
	result.Manifest, err = manifest.Assemble(inputs)
	if err != nil {
		return nil, err
	}
	logger.Info("manifest assembled")
	return result, nil
}

// Header is the header [Build] generates when none is supplied.
type Header struct {
	Name      string `json:"name"`
	Size      int    `json:"size"`
	ChunkSize int    `json:"chunk_size"`
	SHA256    string `json:"sha256"`
}

// DefaultHeader describes text by name, byte size, chunk size, and
// SHA-256 digest.
func DefaultHeader(name, text string, chunkSize int) (json.RawMessage, error) {
	digest, err := artifact.HashReader(strings.NewReader(text), artifact.SHA256)
	if err != nil {
		return nil, err
	}
	header, err := json.Marshal(Header{Name: name, Size: len(text), ChunkSize: chunkSize, SHA256: digest})
	if err != nil {
		return nil, fmt.Errorf("encoding header: %w", err)
	}
	return header, nil
}
