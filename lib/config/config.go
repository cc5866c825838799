// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/helix-storage/helix/lib/artifact"
	"github.com/helix-storage/helix/lib/fault"
	"github.com/helix-storage/helix/lib/manifest"
	"github.com/helix-storage/helix/lib/pow"
)

// Config is the complete helix configuration.
type Config struct {
	// ChunkSize is the chunk length in characters used by build.
	ChunkSize int `yaml:"chunk_size"`

	Compression     CompressionConfig     `yaml:"compression"`
	ErrorCorrection ErrorCorrectionConfig `yaml:"error_correction"`
	ProofOfWork     ProofOfWorkConfig     `yaml:"proof_of_work"`
	Hash            HashConfig            `yaml:"hash"`
	Output          OutputConfig          `yaml:"output"`
}

// CompressionConfig selects the compressor codec.
type CompressionConfig struct {
	// Codec is gzip, zstd, or lz4. Default: gzip.
	Codec string `yaml:"codec"`
}

// ErrorCorrectionConfig selects the registered corrector.
type ErrorCorrectionConfig struct {
	// Codec names a registered corrector. Default: placeholder.
	Codec string `yaml:"codec"`
}

// ProofOfWorkConfig configures the nonce search.
type ProofOfWorkConfig struct {
	// Policy is prefix or threshold. Default: prefix.
	Policy string `yaml:"policy"`

	// Difficulty is the policy token. Default: 00000.
	Difficulty string `yaml:"difficulty"`

	// Workers is the number of parallel scanners; 0 means one per
	// CPU. Default: 1.
	Workers int `yaml:"workers"`

	// Timeout bounds the search, as a Go duration string. Empty or
	// "0s" means unbounded.
	Timeout string `yaml:"timeout"`

	// Timed records time_taken_seconds in the record.
	Timed bool `yaml:"timed"`
}

// HashConfig selects the file hashing algorithm.
type HashConfig struct {
	// Algorithm is sha256, blake3, or blake2b. Default: sha256.
	Algorithm string `yaml:"algorithm"`
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	// Directory receives artifact and manifest files. Default: ".".
	Directory string `yaml:"directory"`

	// Format is the manifest encoding, json or cbor. Default: json.
	Format string `yaml:"format"`

	// Recipients are age1... public keys. When set, manifests are
	// encrypted to them.
	Recipients []string `yaml:"recipients"`

	// Identities are paths to age identity files used to open
	// encrypted manifests.
	Identities []string `yaml:"identities"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		ChunkSize:       1024,
		Compression:     CompressionConfig{Codec: string(artifact.CodecGzip)},
		ErrorCorrection: ErrorCorrectionConfig{Codec: "placeholder"},
		ProofOfWork: ProofOfWorkConfig{
			Policy:     string(pow.KindPrefix),
			Difficulty: "00000",
			Workers:    1,
		},
		Hash:   HashConfig{Algorithm: string(artifact.SHA256)},
		Output: OutputConfig{Directory: ".", Format: string(manifest.FormatJSON)},
	}
}

// LoadFile loads path over [Default] and validates the result. Path
// fields are taken literally; nothing is read from the environment.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.Input(path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fault.Input(path, fmt.Errorf("parsing YAML: %w", err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field, reporting all problems at once. Each
// problem wraps [fault.ErrInvalidArgument].
func (c *Config) Validate() error {
	var errs []error

	if c.ChunkSize < 1 {
		errs = append(errs, fault.InvalidArgument("chunk_size must be >= 1, got %d", c.ChunkSize))
	}
	if _, err := artifact.ParseCodec(c.Compression.Codec); err != nil {
		errs = append(errs, fmt.Errorf("compression.codec: %w", err))
	}
	if _, err := artifact.LookupCorrector(c.ErrorCorrection.Codec); err != nil {
		errs = append(errs, fmt.Errorf("error_correction.codec: %w", err))
	}
	if _, err := c.ProofOfWork.ParsePolicy(); err != nil {
		errs = append(errs, fmt.Errorf("proof_of_work: %w", err))
	}
	if c.ProofOfWork.Workers < 0 {
		errs = append(errs, fault.InvalidArgument("proof_of_work.workers must be >= 0, got %d", c.ProofOfWork.Workers))
	}
	if _, err := c.ProofOfWork.TimeoutDuration(); err != nil {
		errs = append(errs, fmt.Errorf("proof_of_work.timeout: %w", err))
	}
	if _, err := artifact.ParseAlgorithm(c.Hash.Algorithm); err != nil {
		errs = append(errs, fmt.Errorf("hash.algorithm: %w", err))
	}
	if c.Output.Directory == "" {
		errs = append(errs, fault.InvalidArgument("output.directory is required"))
	}
	if _, err := manifest.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("output.format: %w", err))
	}

	return errors.Join(errs...)
}

// ParsePolicy builds the configured proof-of-work policy.
func (p ProofOfWorkConfig) ParsePolicy() (pow.Policy, error) {
	return pow.ParsePolicy(pow.PolicyKind(p.Policy), p.Difficulty)
}

// TimeoutDuration parses Timeout. Empty means zero.
func (p ProofOfWorkConfig) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return 0, nil
	}
	duration, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0, fault.InvalidArgument("%v", err)
	}
	if duration < 0 {
		return 0, fault.InvalidArgument("timeout must not be negative, got %s", p.Timeout)
	}
	return duration, nil
}

// EnsureOutputDirectory creates the output directory if needed.
func (c *Config) EnsureOutputDirectory() error {
	if err := os.MkdirAll(c.Output.Directory, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", c.Output.Directory, err)
	}
	return nil
}
