// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package iscc

import (
	"fmt"

	"github.com/bureau-foundation/iscc/lib/component"
	"github.com/bureau-foundation/iscc/lib/failure"
	"github.com/bureau-foundation/iscc/lib/similarity"
)

// MixedCode is the result of [GenMixedCode].
type MixedCode struct {
	Code string `json:"iscc"`

	// Parts are the input codes as given.
	Parts []string `json:"parts"`
}

// GenMixedCode merges two or more Content-Codes of any subtype into one
// Content-Code of subtype Mixed. Each input must carry at least bits of
// digest. Its first header byte, which holds main type and subtype,
// joins the leading bits/8-1 digest bytes so that codes of different
// media do not collapse onto each other.
func GenMixedCode(codes []string, bits int) (*MixedCode, error) {
	if err := component.CheckBits(bits); err != nil {
		return nil, err
	}
	if len(codes) < 2 {
		return nil, failure.Validation("iscc: mixing needs at least 2 Content-Codes, got %d", len(codes))
	}

	size := bits / 8
	entries := make([][]byte, len(codes))
	for index, code := range codes {
		raw, err := component.DecodeText(code)
		if err != nil {
			return nil, fmt.Errorf("iscc: mixed input %d: %w", index, err)
		}
		header, body, err := component.DecodeHeader(raw)
		if err != nil {
			return nil, fmt.Errorf("iscc: mixed input %d: %w", index, err)
		}
		if header.MainType != component.Content {
			return nil, failure.Validation("iscc: mixed input %d has main type %s, not CONTENT", index, header.MainType)
		}
		if len(body) < size {
			return nil, failure.Validation("iscc: mixed input %d has %d bits, %d requested", index, len(body)*8, bits)
		}
		entry := make([]byte, 0, size)
		entry = append(entry, raw[0])
		entries[index] = append(entry, body[:size-1]...)
	}

	digest, err := similarity.SimHash(entries)
	if err != nil {
		return nil, err
	}
	code, err := component.Encode(component.Content, component.Mixed, component.V0, bits, digest)
	if err != nil {
		return nil, err
	}
	return &MixedCode{Code: code, Parts: append([]string(nil), codes...)}, nil
}
