// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package similarity

import "github.com/bureau-foundation/iscc/lib/failure"

// SlidingWindow returns the overlapping substrings of width code points
// of text, in order. Text shorter than width yields a single window
// holding all of it (so the empty string yields [""]). A width below 2
// fails with [failure.ErrValidation].
func SlidingWindow(text string, width int) ([]string, error) {
	if width < 2 {
		return nil, failure.Validation("similarity: window width %d, need at least 2", width)
	}
	// Byte offset of every code point start, plus the end of text.
	offsets := make([]int, 0, len(text)+1)
	for offset := range text {
		offsets = append(offsets, offset)
	}
	runes := len(offsets)
	offsets = append(offsets, len(text))

	count := max(runes-width+1, 1)
	windows := make([]string, count)
	for index := range count {
		end := min(index+width, runes)
		windows[index] = text[offsets[index]:offsets[end]]
	}
	return windows, nil
}

// SlidingWindowBytes is [SlidingWindow] over bytes. The returned
// windows alias data. Data shorter than width yields one window.
func SlidingWindowBytes(data []byte, width int) [][]byte {
	if width < 1 {
		width = 1
	}
	count := max(len(data)-width+1, 1)
	windows := make([][]byte, count)
	for index := range count {
		windows[index] = data[index:min(index+width, len(data))]
	}
	return windows
}
