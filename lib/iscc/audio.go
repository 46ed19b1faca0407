// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package iscc

import (
	"encoding/binary"
	"slices"

	"github.com/bureau-foundation/iscc/lib/component"
	"github.com/bureau-foundation/iscc/lib/similarity"
)

// AudioCode is the result of [GenAudioCode].
type AudioCode struct {
	Code string `json:"iscc"`
}

// GenAudioCode computes a Content-Code from a Chromaprint fingerprint.
// The 32-byte digest concatenates 4-byte SimHashes of the whole vector,
// of each of its four quarters, and of each third of the sorted values.
// An empty vector yields the all-zero digest.
func GenAudioCode(features []int32, bits int) (*AudioCode, error) {
	if err := component.CheckBits(bits); err != nil {
		return nil, err
	}
	code, err := component.Encode(component.Content, component.Audio, component.V0, bits, audioDigest(features))
	if err != nil {
		return nil, err
	}
	return &AudioCode{Code: code}, nil
}

func audioDigest(features []int32) []byte {
	digest := make([]byte, 0, component.MaxBits/8)
	if len(features) == 0 {
		return digest[:cap(digest)]
	}

	words := audioWords(features)
	digest = append(digest, simHashOrZero(words)...)
	for _, part := range splitEven(words, 4) {
		digest = append(digest, simHashOrZero(part)...)
	}
	sorted := slices.Clone(features)
	slices.Sort(sorted)
	for _, part := range splitEven(audioWords(sorted), 3) {
		digest = append(digest, simHashOrZero(part)...)
	}
	return digest
}

func audioWords(features []int32) [][]byte {
	words := make([][]byte, len(features))
	for index, feature := range features {
		words[index] = binary.BigEndian.AppendUint32(nil, uint32(feature))
	}
	return words
}

func simHashOrZero(words [][]byte) []byte {
	if len(words) == 0 {
		return make([]byte, 4)
	}
	digest, _ := similarity.SimHash(words)
	return digest
}

// splitEven cuts values into count consecutive parts whose sizes differ
// by at most one; the leading parts take the remainder. Parts may be
// empty when there are fewer values than parts.
func splitEven[T any](values []T, count int) [][]T {
	parts := make([][]T, count)
	base, remainder := len(values)/count, len(values)%count
	offset := 0
	for index := range parts {
		size := base
		if index < remainder {
			size++
		}
		parts[index] = values[offset : offset+size]
		offset += size
	}
	return parts
}
