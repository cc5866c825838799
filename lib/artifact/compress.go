// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/helix-storage/helix/lib/fault"
)

// Codec names the reversible compression applied before base64.
type Codec string

const (
	// CodecGzip is the default: a gzip member with no name or
	// timestamp in its header.
	CodecGzip Codec = "gzip"

	// CodecZstd is a single zstd frame at the default level.
	CodecZstd Codec = "zstd"

	// CodecLZ4 is a single LZ4 frame.
	CodecLZ4 Codec = "lz4"
)

// ParseCodec parses a codec name. The empty string selects gzip.
func ParseCodec(name string) (Codec, error) {
	switch Codec(name) {
	case "", CodecGzip:
		return CodecGzip, nil
	case CodecZstd:
		return CodecZstd, nil
	case CodecLZ4:
		return CodecLZ4, nil
	default:
		return "", fault.InvalidArgument("unknown compression codec %q (want gzip, zstd, or lz4)", name)
	}
}

// Compression is the compressor's artifact payload.
type Compression struct {
	// CompressedData is the standard base64 encoding of the
	// compressed bytes.
	CompressedData string `json:"compressed_data"`

	// Codec is empty for gzip.
	Codec Codec `json:"codec,omitempty"`
}

// zstdEncoder and zstdDecoder are reused across calls to avoid
// repeated initialization overhead. Both are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("artifact: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("artifact: zstd decoder initialization failed: " + err.Error())
	}
}

// Compress compresses data with codec and base64-encodes the result.
func Compress(data []byte, codec Codec) (*Compression, error) {
	codec, err := ParseCodec(string(codec))
	if err != nil {
		return nil, err
	}

	var compressed []byte
	switch codec {
	case CodecGzip:
		compressed, err = compressGzip(data)
	case CodecZstd:
		compressed = zstdEncoder.EncodeAll(data, nil)
	case CodecLZ4:
		compressed, err = compressLZ4(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s compress: %w", codec, err)
	}

	result := &Compression{CompressedData: base64.StdEncoding.EncodeToString(compressed)}
	if codec != CodecGzip {
		result.Codec = codec
	}
	return result, nil
}

// Decompress reverses [Compress].
func (c *Compression) Decompress() ([]byte, error) {
	codec, err := ParseCodec(string(c.Codec))
	if err != nil {
		return nil, err
	}
	compressed, err := base64.StdEncoding.DecodeString(c.CompressedData)
	if err != nil {
		return nil, fault.Input("compressed_data", fmt.Errorf("decoding base64: %w", err))
	}

	var data []byte
	switch codec {
	case CodecGzip:
		data, err = decompressGzip(compressed)
	case CodecZstd:
		data, err = zstdDecoder.DecodeAll(compressed, nil)
	case CodecLZ4:
		data, err = io.ReadAll(lz4.NewReader(bytes.NewReader(compressed)))
	}
	if err != nil {
		return nil, fault.Input("compressed_data", fmt.Errorf("%s decompress: %w", codec, err))
	}
	return data, nil
}

// CompressArtifact compresses data and wraps the result as a
// [KindCompressedData] artifact.
func CompressArtifact(data []byte, codec Codec) (Artifact, *Compression, error) {
	compression, err := Compress(data, codec)
	if err != nil {
		return Artifact{}, nil, err
	}
	result, err := New(KindCompressedData, compression)
	if err != nil {
		return Artifact{}, nil, err
	}
	return result, compression, nil
}

func compressGzip(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer, err := gzip.NewWriterLevel(&buffer, gzip.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func decompressGzip(compressed []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func compressLZ4(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer := lz4.NewWriter(&buffer)
	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
