// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package iscc

import (
	"fmt"
	"io"

	"github.com/pierrec/xxHash/xxHash32"
	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/iscc/lib/chunker"
	"github.com/bureau-foundation/iscc/lib/component"
	"github.com/bureau-foundation/iscc/lib/failure"
	"github.com/bureau-foundation/iscc/lib/similarity"
)

// DataCode is the result of [GenDataCode] and [DataHasher.Finalize].
type DataCode struct {
	Code string `json:"iscc"`
}

// InstanceCode is the result of [GenInstanceCode] and
// [InstanceHasher.Finalize].
type InstanceCode struct {
	Code string `json:"iscc"`

	// Datahash is the hex BLAKE3 multihash of the full input.
	Datahash string `json:"datahash"`

	// Filesize is the number of input bytes.
	Filesize uint64 `json:"filesize"`
}

// DataHasher computes a Data-Code over input supplied in pieces. Any
// partition of the input yields the same code as [GenDataCode] over
// the whole. A DataHasher is owned by one goroutine; once Finalize has
// succeeded it rejects further use with [failure.ErrState].
type DataHasher struct {
	chunker   *chunker.Chunker
	features  []uint32
	finalized bool
}

// NewDataHasher returns a DataHasher in its initial state.
func NewDataHasher() *DataHasher {
	c, err := chunker.New(chunker.Options{AverageSize: DataAverageChunkSize})
	if err != nil {
		panic(fmt.Sprintf("iscc: data chunker: %v", err))
	}
	return &DataHasher{chunker: c}
}

// Update feeds data into the hasher. An empty update succeeds without
// changing state.
func (h *DataHasher) Update(data []byte) error {
	if h.finalized {
		return failure.State("iscc: data hasher updated after finalize")
	}
	h.chunker.Feed(data, h.collect)
	return nil
}

// Write implements io.Writer on top of Update.
func (h *DataHasher) Write(data []byte) (int, error) {
	if err := h.Update(data); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (h *DataHasher) collect(chunk []byte) {
	h.features = append(h.features, xxHash32.Checksum(chunk, 0))
}

// Finalize flushes the last chunk and returns the Data-Code. An
// unsupported bit length is reported without consuming the hasher, so
// the caller may retry with a valid one.
func (h *DataHasher) Finalize(bits int) (*DataCode, error) {
	if h.finalized {
		return nil, failure.State("iscc: data hasher finalized twice")
	}
	if err := component.CheckBits(bits); err != nil {
		return nil, err
	}
	h.finalized = true
	h.chunker.Flush(h.collect)
	code, err := component.Encode(component.Data, component.None, component.V0, bits, similarity.MinHash256(h.features))
	if err != nil {
		return nil, err
	}
	return &DataCode{Code: code}, nil
}

// InstanceHasher computes an Instance-Code over input supplied in
// pieces, with the same state rules as [DataHasher].
type InstanceHasher struct {
	hasher    *blake3.Hasher
	filesize  uint64
	finalized bool
}

// NewInstanceHasher returns an InstanceHasher in its initial state.
func NewInstanceHasher() *InstanceHasher {
	return &InstanceHasher{hasher: blake3.New()}
}

// Update feeds data into the hasher.
func (h *InstanceHasher) Update(data []byte) error {
	if h.finalized {
		return failure.State("iscc: instance hasher updated after finalize")
	}
	h.hasher.Write(data)
	h.filesize += uint64(len(data))
	return nil
}

// Write implements io.Writer on top of Update.
func (h *InstanceHasher) Write(data []byte) (int, error) {
	if err := h.Update(data); err != nil {
		return 0, err
	}
	return len(data), nil
}

// Finalize returns the Instance-Code. The code digest is the BLAKE3
// hash truncated to bits; Datahash always carries the full hash.
func (h *InstanceHasher) Finalize(bits int) (*InstanceCode, error) {
	if h.finalized {
		return nil, failure.State("iscc: instance hasher finalized twice")
	}
	if err := component.CheckBits(bits); err != nil {
		return nil, err
	}
	h.finalized = true
	digest := h.hasher.Sum(nil)
	code, err := component.Encode(component.Instance, component.None, component.V0, bits, digest)
	if err != nil {
		return nil, err
	}
	return &InstanceCode{Code: code, Datahash: blake3Multihash(digest), Filesize: h.filesize}, nil
}

// GenDataCode computes the Data-Code of data in one call.
func GenDataCode(data []byte, bits int) (*DataCode, error) {
	if err := component.CheckBits(bits); err != nil {
		return nil, err
	}
	hasher := NewDataHasher()
	if err := hasher.Update(data); err != nil {
		return nil, err
	}
	return hasher.Finalize(bits)
}

// GenInstanceCode computes the Instance-Code of data in one call.
func GenInstanceCode(data []byte, bits int) (*InstanceCode, error) {
	if err := component.CheckBits(bits); err != nil {
		return nil, err
	}
	hasher := NewInstanceHasher()
	if err := hasher.Update(data); err != nil {
		return nil, err
	}
	return hasher.Finalize(bits)
}

// HashReader streams source through both hashers, reading blockSize
// bytes at a time, and returns the Data-Code and Instance-Code of its
// full content.
func HashReader(source io.Reader, bits, blockSize int) (*DataCode, *InstanceCode, error) {
	if err := component.CheckBits(bits); err != nil {
		return nil, nil, err
	}
	if blockSize <= 0 {
		blockSize = IoReadSize
	}
	data := NewDataHasher()
	instance := NewInstanceHasher()
	if _, err := io.CopyBuffer(io.MultiWriter(data, instance), onlyReader{source}, make([]byte, blockSize)); err != nil {
		return nil, nil, fmt.Errorf("iscc: reading input: %w", err)
	}
	dataCode, err := data.Finalize(bits)
	if err != nil {
		return nil, nil, err
	}
	instanceCode, err := instance.Finalize(bits)
	if err != nil {
		return nil, nil, err
	}
	return dataCode, instanceCode, nil
}

// onlyReader hides WriterTo so io.CopyBuffer honours the block size.
type onlyReader struct {
	io.Reader
}
