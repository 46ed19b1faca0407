// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects how an input stream is decoded.
type Compression uint8

const (
	// CompressionAuto decompresses when the stream starts with a zstd
	// or LZ4 frame magic and passes it through otherwise.
	CompressionAuto Compression = iota

	// CompressionNone passes the stream through unchanged.
	CompressionNone

	// CompressionZstd decodes a zstd stream.
	CompressionZstd

	// CompressionLZ4 decodes an LZ4 frame stream.
	CompressionLZ4
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// String returns the name accepted by ParseCompression.
func (c Compression) String() string {
	switch c {
	case CompressionAuto:
		return "auto"
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a compression name. The empty string means
// auto.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "auto":
		return CompressionAuto, nil
	case "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (want auto, none, zstd or lz4)", name)
	}
}

// Input is an opened stream. Read returns decoded bytes; Close releases
// the decoder and the underlying file.
type Input struct {
	// Name is the path, or "-" for standard input.
	Name string

	// Compression is the decoding applied, never CompressionAuto.
	Compression Compression

	reader  io.Reader
	closers []func() error
}

// Read implements io.Reader.
func (in *Input) Read(buffer []byte) (int, error) {
	return in.reader.Read(buffer)
}

// Close releases the decoder and closes the file. Standard input is
// left open.
func (in *Input) Close() error {
	var first error
	for index := len(in.closers) - 1; index >= 0; index-- {
		if err := in.closers[index](); err != nil && first == nil {
			first = err
		}
	}
	in.closers = nil
	return first
}

// Open opens path ("-" for stdin) with the given compression handling.
func Open(path string, compression Compression, stdin io.Reader) (*Input, error) {
	in := &Input{Name: path}
	var raw io.Reader
	if path == "-" {
		raw = stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		raw = file
		in.closers = append(in.closers, file.Close)
	}

	decoded, used, closer, err := Decode(raw, compression)
	if err != nil {
		in.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if closer != nil {
		in.closers = append(in.closers, closer)
	}
	in.reader = decoded
	in.Compression = used
	return in, nil
}

// Decode wraps raw in the decoder for compression, sniffing the frame
// magic for CompressionAuto. It returns the decoded reader, the
// compression applied, and an optional function releasing decoder
// resources.
func Decode(raw io.Reader, compression Compression) (io.Reader, Compression, func() error, error) {
	buffered := bufio.NewReaderSize(raw, 64<<10)
	if compression == CompressionAuto {
		compression = sniff(buffered)
	}
	switch compression {
	case CompressionNone:
		return buffered, CompressionNone, nil, nil
	case CompressionZstd:
		decoder, err := zstd.NewReader(buffered)
		if err != nil {
			return nil, 0, nil, fmt.Errorf("zstd decoder: %w", err)
		}
		return decoder, CompressionZstd, func() error {
			decoder.Close()
			return nil
		}, nil
	case CompressionLZ4:
		return lz4.NewReader(buffered), CompressionLZ4, nil, nil
	default:
		return nil, 0, nil, fmt.Errorf("unsupported compression %s", compression)
	}
}

func sniff(reader *bufio.Reader) Compression {
	head, _ := reader.Peek(4)
	switch {
	case bytes.Equal(head, zstdMagic):
		return CompressionZstd
	case bytes.Equal(head, lz4Magic):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// ReadAll opens path and returns its decoded content. Generators that
// need the whole input at once (text, image, JSON documents) use it.
func ReadAll(path string, compression Compression, stdin io.Reader) ([]byte, error) {
	in, err := Open(path, compression, stdin)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
