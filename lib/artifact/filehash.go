// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"os"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"

	"github.com/helix-storage/helix/lib/fault"
)

// HashBlockSize is the read size used when streaming files into a
// hash.
const HashBlockSize = 8192

// Algorithm names a file digest algorithm.
type Algorithm string

const (
	SHA256     Algorithm = "sha256"
	BLAKE3     Algorithm = "blake3"
	BLAKE2b256 Algorithm = "blake2b"
)

// ParseAlgorithm parses an algorithm name. The empty string selects
// SHA-256.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case "", SHA256:
		return SHA256, nil
	case BLAKE3:
		return BLAKE3, nil
	case BLAKE2b256:
		return BLAKE2b256, nil
	default:
		return "", fault.InvalidArgument("unknown hash algorithm %q (want sha256, blake3, or blake2b)", name)
	}
}

// Label is the display name used in CLI output.
func (a Algorithm) Label() string {
	switch a {
	case BLAKE3:
		return "BLAKE3"
	case BLAKE2b256:
		return "BLAKE2b-256"
	default:
		return "SHA256"
	}
}

func (a Algorithm) newHash() hash.Hash {
	switch a {
	case BLAKE3:
		return blake3.New()
	case BLAKE2b256:
		// New256 only fails for keys longer than 64 bytes.
		hasher, _ := blake2b.New256(nil)
		return hasher
	default:
		return sha256.New()
	}
}

// HashReader streams r into the algorithm's hash in
// [HashBlockSize] blocks and returns the lowercase hex digest.
func HashReader(r io.Reader, algorithm Algorithm) (string, error) {
	hasher := algorithm.newHash()
	buffer := make([]byte, HashBlockSize)
	if _, err := io.CopyBuffer(onlyWriter{hasher}, onlyReader{r}, buffer); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// HashFile returns the hex digest of the file at path.
func HashFile(path string, algorithm Algorithm) (string, error) {
	algorithm, err := ParseAlgorithm(string(algorithm))
	if err != nil {
		return "", err
	}
	file, err := os.Open(path)
	if err != nil {
		return "", fault.Input(path, err)
	}
	defer file.Close()

	digest, err := HashReader(file, algorithm)
	if err != nil {
		return "", fault.Input(path, err)
	}
	return digest, nil
}

// onlyReader and onlyWriter hide ReaderFrom/WriterTo so io.CopyBuffer
// honors the fixed block size.
type onlyReader struct{ io.Reader }

type onlyWriter struct{ io.Writer }
