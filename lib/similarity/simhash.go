// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package similarity

import "github.com/bureau-foundation/iscc/lib/failure"

// SimHash combines equal-length digests into one digest of the same
// length. Bit i of the result is 1 when at least half of the inputs
// have bit i set (a tie resolves to 1). Bits are numbered most
// significant first within each byte.
//
// A single input is returned as a copy. An empty list or inputs of
// different lengths fail with [failure.ErrValidation].
func SimHash(digests [][]byte) ([]byte, error) {
	if len(digests) == 0 {
		return nil, failure.Validation("similarity: simhash of an empty digest list")
	}
	size := len(digests[0])
	for index, digest := range digests[1:] {
		if len(digest) != size {
			return nil, failure.Validation("similarity: digest %d has %d bytes, digest 0 has %d", index+1, len(digest), size)
		}
	}

	counts := make([]int, size*8)
	for _, digest := range digests {
		for position := range counts {
			if (digest[position/8]>>uint(7-position%8))&1 == 1 {
				counts[position]++
			}
		}
	}

	result := make([]byte, size)
	total := len(digests)
	for position, count := range counts {
		if count*2 >= total {
			result[position/8] |= 1 << uint(7-position%8)
		}
	}
	return result, nil
}
