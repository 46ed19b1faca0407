// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package similarity

const (
	// mersennePrime61 is the modulus of the universal hash family.
	mersennePrime61 = 1<<61 - 1

	// maxHash masks hash values to 32 bits.
	maxHash = 1<<32 - 1

	// minHashBitsPerFunction is how many low bits of each of the 64
	// minima enter the digest: 64 x 4 = 256 bits.
	minHashBitsPerFunction = 4
)

// MinHashSize is the byte length of a [MinHash256] digest.
const MinHashSize = 32

// MinHash256 returns the 32-byte MinHash digest of a feature set.
//
// Each of 64 universal hash functions h(f) = ((a*f + b) mod 2^64 mod
// (2^61 - 1)) & 0xFFFFFFFF is minimized over the features. The digest
// holds bit 0 of all 64 minima, then bit 1 of all 64, then bits 2 and
// 3, packed most significant bit first.
//
// The result does not depend on feature order or duplicates. An empty
// feature set yields 32 zero bytes.
func MinHash256(features []uint32) []byte {
	digest := make([]byte, MinHashSize)
	if len(features) == 0 {
		return digest
	}

	var minima [64]uint64
	for index := range minima {
		a, b := permutationA[index], permutationB[index]
		minimum := uint64(maxHash)
		for _, feature := range features {
			value := ((a*uint64(feature) + b) % mersennePrime61) & maxHash
			if value < minimum {
				minimum = value
			}
		}
		minima[index] = minimum
	}

	position := 0
	for bit := range minHashBitsPerFunction {
		for _, minimum := range minima {
			if (minimum>>uint(bit))&1 == 1 {
				digest[position/8] |= 1 << uint(7-position%8)
			}
			position++
		}
	}
	return digest
}
