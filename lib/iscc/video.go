// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package iscc

import (
	"github.com/bureau-foundation/iscc/lib/component"
	"github.com/bureau-foundation/iscc/lib/failure"
	"github.com/bureau-foundation/iscc/lib/similarity"
)

// VideoCode is the result of [GenVideoCode].
type VideoCode struct {
	Code string `json:"iscc"`
}

// GenVideoCode computes a Content-Code from per-frame signatures (for
// example MPEG-7 frame signatures of 380 values). Every frame must have
// the same, non-zero dimension.
//
// Each frame is reduced to 256 bits by comparing fixed pairs of its
// coefficients, and the frame digests are merged by SimHash, so frames
// that agree on most comparisons dominate the result.
func GenVideoCode(frames [][]int32, bits int) (*VideoCode, error) {
	if err := component.CheckBits(bits); err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, failure.Validation("iscc: video has no frames")
	}
	dimension := len(frames[0])
	if dimension == 0 {
		return nil, failure.Validation("iscc: video frame 0 is empty")
	}
	digests := make([][]byte, len(frames))
	for index, frame := range frames {
		if len(frame) != dimension {
			return nil, failure.Validation("iscc: video frame %d has %d values, frame 0 has %d", index, len(frame), dimension)
		}
		digests[index] = frameDigest(frame)
	}
	digest, err := similarity.SimHash(digests)
	if err != nil {
		return nil, err
	}
	code, err := component.Encode(component.Content, component.Video, component.V0, bits, digest)
	if err != nil {
		return nil, err
	}
	return &VideoCode{Code: code}, nil
}

func frameDigest(frame []int32) []byte {
	digest := make([]byte, len(framePairs)/8)
	dimension := len(frame)
	for position, pair := range framePairs {
		if frame[pair[0]%dimension] < frame[pair[1]%dimension] {
			digest[position/8] |= 1 << uint(7-position%8)
		}
	}
	return digest
}
