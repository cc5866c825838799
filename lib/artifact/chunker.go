// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/helix-storage/helix/lib/fault"
)

// Chunk splits text into consecutive pieces of at most size characters
// (Unicode code points), preserving order. Only the last piece may be
// shorter. Empty text yields an empty, non-nil slice.
//
// A code point is never split across chunks, so every chunk is itself
// valid UTF-8.
func Chunk(text string, size int) ([]string, error) {
	if size < 1 {
		return nil, fault.InvalidArgument("chunk size must be >= 1, got %d", size)
	}
	if !utf8.ValidString(text) {
		return nil, fault.Input("chunk source", errors.New("not valid UTF-8"))
	}

	chunks := make([]string, 0, utf8.RuneCountInString(text)/size+1)
	start, count := 0, 0
	for index := range text {
		if count == size {
			chunks = append(chunks, text[start:index])
			start, count = index, 0
		}
		count++
	}
	if start < len(text) {
		chunks = append(chunks, text[start:])
	}
	return chunks, nil
}

// Join concatenates chunks in order, reversing [Chunk].
func Join(chunks []string) string {
	return strings.Join(chunks, "")
}

// ChunkArtifact chunks text and wraps the result as a
// [KindChunkedData] artifact.
func ChunkArtifact(text string, size int) (Artifact, error) {
	chunks, err := Chunk(text, size)
	if err != nil {
		return Artifact{}, err
	}
	return New(KindChunkedData, chunks)
}
