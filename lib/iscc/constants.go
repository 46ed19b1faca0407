// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package iscc

// Algorithm constants. Callers that trim input themselves use the same
// ceilings so their text matches what the generators hash.
const (
	// MetaTrimName is the byte ceiling of a normalized Meta-Code name.
	MetaTrimName = 128

	// MetaTrimDescription is the byte ceiling of a normalized
	// Meta-Code description.
	MetaTrimDescription = 4096

	// MetaTrimMeta is the byte ceiling of a structured metadata
	// payload. Larger payloads are rejected rather than cut, since a
	// cut would corrupt the structure.
	MetaTrimMeta = 128_000

	// IoReadSize is the read block size for streaming file input.
	IoReadSize = 4_194_304

	// TextNgramSize is the code point width of Text-Code n-grams.
	TextNgramSize = 13

	// DataAverageChunkSize is the average chunk size of Data-Codes.
	DataAverageChunkSize = 1024
)

// metaNgramSize is the code point width of Meta-Code text n-grams.
const metaNgramSize = 3

// metaByteNgramSize is the byte width of Meta-Code payload n-grams.
const metaByteNgramSize = 4

// DefaultBits is the bit length the command line uses when none is given.
const DefaultBits = 64
