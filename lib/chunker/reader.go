// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chunker

import (
	"errors"
	"io"

	"github.com/bureau-foundation/iscc/lib/failure"
)

// DefaultBlockSize is the read size used by [Reader] when none is given.
const DefaultBlockSize = 4 << 20

// Chunk is one chunk produced by a [Reader].
type Chunk struct {
	// Offset is the position of the first byte of Data in the stream.
	Offset int64

	// Data is owned by the caller.
	Data []byte
}

// Reader chunks the bytes of an io.Reader. Create one with [NewReader]
// and call [Reader.Next] until it returns io.EOF.
type Reader struct {
	source    io.Reader
	chunker   *Chunker
	block     []byte
	pending   []Chunk
	offset    int64
	exhausted bool
}

// NewReader returns a Reader that reads blockSize bytes at a time from
// source. A blockSize of zero selects DefaultBlockSize.
func NewReader(source io.Reader, options Options, blockSize int) (*Reader, error) {
	if blockSize < 0 {
		return nil, failure.Validation("chunker: negative block size %d", blockSize)
	}
	if blockSize == 0 {
		blockSize = DefaultBlockSize
	}
	chunker, err := New(options)
	if err != nil {
		return nil, err
	}
	return &Reader{
		source:  source,
		chunker: chunker,
		block:   make([]byte, blockSize),
	}, nil
}

// Next returns the next chunk, or io.EOF after the final chunk. An
// empty stream yields one empty chunk before io.EOF. Read errors other
// than io.EOF are returned as is.
func (r *Reader) Next() (Chunk, error) {
	for len(r.pending) == 0 {
		if r.exhausted {
			return Chunk{}, io.EOF
		}
		count, err := r.source.Read(r.block)
		if count > 0 {
			r.chunker.Feed(r.block[:count], r.collect)
		}
		if errors.Is(err, io.EOF) {
			r.chunker.Flush(r.collect)
			r.exhausted = true
		} else if err != nil {
			return Chunk{}, err
		}
	}
	chunk := r.pending[0]
	r.pending = r.pending[1:]
	return chunk, nil
}

// collect copies an emitted chunk into the pending queue.
func (r *Reader) collect(data []byte) {
	owned := make([]byte, len(data))
	copy(owned, data)
	r.pending = append(r.pending, Chunk{Offset: r.offset, Data: owned})
	r.offset += int64(len(data))
}
