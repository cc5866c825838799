// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/helix-storage/helix/lib/artifact"
	"github.com/helix-storage/helix/lib/atomicfile"
	"github.com/helix-storage/helix/lib/codec"
	"github.com/helix-storage/helix/lib/fault"
	"github.com/helix-storage/helix/lib/seal"
	"github.com/helix-storage/helix/lib/secret"
)

// DefaultFileName is the conventional manifest file name.
const DefaultFileName = "dna_digital_storage.json"

// Format is the manifest encoding.
type Format string

const (
	// FormatJSON is JSON indented by four spaces.
	FormatJSON Format = "json"

	// FormatCBOR is RFC 8949 core deterministic CBOR. Map keys are
	// sorted by the encoding rules rather than kept in manifest order.
	FormatCBOR Format = "cbor"
)

// ParseFormat parses a format name. The empty string selects JSON.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCBOR:
		return FormatCBOR, nil
	default:
		return "", fault.InvalidArgument("unknown manifest format %q (want json or cbor)", name)
	}
}

// WriteOptions controls [Write].
type WriteOptions struct {
	Format Format

	// Recipients, when non-empty, are the age1... keys the file is
	// encrypted to.
	Recipients []string
}

// Encode renders m in format.
func Encode(m *Manifest, format Format) ([]byte, error) {
	format, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}
	encoded, err := artifact.Encode(m)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	if format == FormatCBOR {
		encoded, err = codec.FromJSON(encoded)
		if err != nil {
			return nil, fmt.Errorf("encoding manifest: %w", err)
		}
	}
	return encoded, nil
}

// Write atomically writes m to path. On any error nothing is left at
// path that was not there before.
func Write(path string, m *Manifest, options WriteOptions) error {
	encoded, err := Encode(m, options.Format)
	if err != nil {
		return err
	}
	if len(options.Recipients) == 0 {
		return atomicfile.WriteFile(path, encoded, 0o644)
	}

	// Validate recipients before any temporary file exists.
	if _, err := seal.ParseRecipients(options.Recipients); err != nil {
		return err
	}
	return atomicfile.Write(path, 0o600, func(w io.Writer) error {
		encryptor, err := seal.NewWriter(w, options.Recipients)
		if err != nil {
			return err
		}
		if _, err := encryptor.Write(encoded); err != nil {
			return err
		}
		return encryptor.Close()
	})
}

// Decode parses a manifest in any supported encoding. Encrypted data
// requires at least one matching identity.
func Decode(data []byte, identities []*secret.Buffer) (*Manifest, error) {
	if seal.IsEncrypted(data) {
		plaintext, err := seal.Decrypt(data, identities)
		if err != nil {
			return nil, err
		}
		data = plaintext
	}

	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		if !codec.Wellformed(data) {
			return nil, fmt.Errorf("manifest is neither JSON nor CBOR")
		}
		converted, err := codec.ToJSON(data)
		if err != nil {
			return nil, err
		}
		trimmed = converted
	}

	var m Manifest
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return Assemble(m.Inputs())
}

// Read reads and decodes the manifest at path.
func Read(path string, identities []*secret.Buffer) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.Input(path, err)
	}
	m, err := Decode(data, identities)
	if err != nil {
		return nil, fault.Input(path, err)
	}
	return m, nil
}
