// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binding

import (
	"github.com/bureau-foundation/iscc/lib/chunker"
	"github.com/bureau-foundation/iscc/lib/similarity"
)

// Buffer is a byte result owned by the caller until Release.
type Buffer struct {
	data []byte
}

// Bytes returns the contents, or nil after Release.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// Len returns the content length.
func (b *Buffer) Len() int {
	return len(b.Bytes())
}

// Release drops the contents. Calling it again, or on a nil Buffer, is
// harmless.
func (b *Buffer) Release() {
	if b != nil {
		b.data = nil
	}
}

// BufferArray is an ordered list of byte results owned by the caller
// until Release.
type BufferArray struct {
	items [][]byte
}

// Len returns the number of items.
func (a *BufferArray) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// At returns item index, or nil when index is out of range or the
// array was released.
func (a *BufferArray) At(index int) []byte {
	if a == nil || index < 0 || index >= len(a.items) {
		return nil
	}
	return a.items[index]
}

// Release drops all items. It is safe to call more than once.
func (a *BufferArray) Release() {
	if a != nil {
		a.items = nil
	}
}

// MinHash256 returns the 32-byte MinHash of features.
func (s *Session) MinHash256(features []uint32) (*Buffer, bool) {
	s.record(nil)
	return &Buffer{data: similarity.MinHash256(features)}, true
}

// SimHash returns the SimHash of equal-length digests.
func (s *Session) SimHash(digests [][]byte) (*Buffer, bool) {
	digest, err := similarity.SimHash(digests)
	if !s.record(err) {
		return nil, false
	}
	return &Buffer{data: digest}, true
}

// Chunks splits data into content-defined chunks with the given
// average size; text selects code point aligned cuts. The chunks are
// copies and stay valid when data changes.
func (s *Session) Chunks(data []byte, text bool, averageSize int) (*BufferArray, bool) {
	options := chunker.Options{AverageSize: averageSize}
	if text {
		options.Mode = chunker.Text
	}
	chunks, err := chunker.Split(data, options)
	if !s.record(err) {
		return nil, false
	}
	items := make([][]byte, len(chunks))
	for index, chunk := range chunks {
		items[index] = append([]byte(nil), chunk...)
	}
	return &BufferArray{items: items}, true
}

// SlidingWindow returns the width-code-point n-grams of text.
func (s *Session) SlidingWindow(text string, width int) ([]string, bool) {
	windows, err := similarity.SlidingWindow(text, width)
	if !s.record(err) {
		return nil, false
	}
	return windows, true
}
