// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package component

import "errors"

// maxVarnibble is the largest value a varnibble can carry.
const maxVarnibble = 4679

var (
	errVarnibbleRange     = errors.New("varnibble value out of range")
	errVarnibbleTruncated = errors.New("truncated varnibble")
	errVarnibblePrefix    = errors.New("invalid varnibble prefix")
)

// bitWriter accumulates bits most significant first.
type bitWriter struct {
	data  []byte
	count int
}

// write appends the low width bits of value, most significant first.
func (w *bitWriter) write(value uint32, width int) {
	for shift := width - 1; shift >= 0; shift-- {
		if w.count%8 == 0 {
			w.data = append(w.data, 0)
		}
		if (value>>uint(shift))&1 == 1 {
			w.data[w.count/8] |= 1 << uint(7-w.count%8)
		}
		w.count++
	}
}

// bytes returns the accumulated bits zero-padded to a byte boundary.
func (w *bitWriter) bytes() []byte {
	return w.data
}

// bitReader consumes bits most significant first.
type bitReader struct {
	data     []byte
	position int
}

func (r *bitReader) remaining() int {
	return len(r.data)*8 - r.position
}

// peek returns bit position+offset without consuming it.
func (r *bitReader) peek(offset int) uint32 {
	index := r.position + offset
	return uint32(r.data[index/8]>>uint(7-index%8)) & 1
}

// read consumes width bits and returns them as an integer.
func (r *bitReader) read(width int) uint32 {
	var value uint32
	for range width {
		value = value<<1 | r.peek(0)
		r.position++
	}
	return value
}

// writeVarnibble appends value in varnibble form.
func writeVarnibble(w *bitWriter, value uint32) error {
	switch {
	case value <= 7:
		w.write(value, 4)
	case value <= 71:
		w.write(0b10, 2)
		w.write(value-8, 6)
	case value <= 583:
		w.write(0b110, 3)
		w.write(value-72, 9)
	case value <= maxVarnibble:
		w.write(0b1110, 4)
		w.write(value-584, 12)
	default:
		return errVarnibbleRange
	}
	return nil
}

// readVarnibble consumes one varnibble. The prefix is examined one bit
// at a time so that a truncated buffer is reported rather than read
// past.
func readVarnibble(r *bitReader) (uint32, error) {
	if r.remaining() < 4 {
		return 0, errVarnibbleTruncated
	}
	switch {
	case r.peek(0) == 0:
		return r.read(4), nil
	case r.peek(1) == 0:
		if r.remaining() < 8 {
			return 0, errVarnibbleTruncated
		}
		r.read(2)
		return r.read(6) + 8, nil
	case r.peek(2) == 0:
		if r.remaining() < 12 {
			return 0, errVarnibbleTruncated
		}
		r.read(3)
		return r.read(9) + 72, nil
	case r.peek(3) == 0:
		if r.remaining() < 16 {
			return 0, errVarnibbleTruncated
		}
		r.read(4)
		return r.read(12) + 584, nil
	default:
		return 0, errVarnibblePrefix
	}
}
