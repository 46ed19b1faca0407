// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package iscc

import (
	"unicode/utf8"

	"github.com/pierrec/xxHash/xxHash32"

	"github.com/bureau-foundation/iscc/lib/component"
	"github.com/bureau-foundation/iscc/lib/similarity"
	"github.com/bureau-foundation/iscc/lib/textnorm"
)

// TextCode is the result of [GenTextCode].
type TextCode struct {
	Code string `json:"iscc"`

	// Characters is the number of code points after collapsing.
	Characters int `json:"characters"`
}

// GenTextCode computes a Content-Code for plain text. The text is
// collapsed (lower case; whitespace, punctuation, marks and control
// characters removed), cut into overlapping n-grams of [TextNgramSize]
// code points, and the xxh32 hashes of the n-grams are summarized with
// MinHash. Empty text is valid input.
func GenTextCode(text string, bits int) (*TextCode, error) {
	if err := component.CheckBits(bits); err != nil {
		return nil, err
	}
	collapsed := textnorm.Collapse(text)
	windows, err := similarity.SlidingWindow(collapsed, TextNgramSize)
	if err != nil {
		return nil, err
	}
	features := make([]uint32, len(windows))
	for index, window := range windows {
		features[index] = xxHash32.Checksum([]byte(window), 0)
	}
	code, err := component.Encode(component.Content, component.Text, component.V0, bits, similarity.MinHash256(features))
	if err != nil {
		return nil, err
	}
	return &TextCode{Code: code, Characters: utf8.RuneCountInString(collapsed)}, nil
}
