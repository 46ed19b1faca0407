// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// isNewline reports whether r is one of the characters Clean treats as
// a line break.
func isNewline(r rune) bool {
	switch r {
	case '\n', '\v', '\f', '\r', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// Clean applies NFKC normalization, removes control and format
// characters other than line breaks, turns every line break (and each
// "\r\n" pair) into "\n", keeps at most one consecutive blank line, and
// trims surrounding whitespace.
func Clean(text string) string {
	text = norm.NFKC.String(text)

	var unified strings.Builder
	unified.Grow(len(text))
	previousCarriageReturn := false
	for _, r := range text {
		switch {
		case r == '\n' && previousCarriageReturn:
			// Second half of "\r\n"; the "\r" already wrote the newline.
		case isNewline(r):
			unified.WriteByte('\n')
		case isOther(r):
		default:
			unified.WriteRune(r)
		}
		previousCarriageReturn = r == '\r'
	}

	lines := strings.Split(unified.String(), "\n")
	kept := lines[:0]
	previousBlank := false
	for _, line := range lines {
		blank := strings.TrimSpace(line) == ""
		if blank && previousBlank {
			continue
		}
		previousBlank = blank
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// RemoveNewlines joins the whitespace-separated fields of text with
// single spaces.
func RemoveNewlines(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Trim cuts text to at most size bytes, dropping a code point that the
// cut would split, and trims surrounding whitespace.
func Trim(text string, size int) string {
	if len(text) > size {
		cut := max(size, 0)
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return strings.TrimSpace(text)
}

// Collapse returns the hashing form of text: NFD, lower case, with
// whitespace and characters of the Unicode categories C (control), M
// (mark) and P (punctuation) removed, then NFKC.
func Collapse(text string) string {
	decomposed := strings.ToLower(norm.NFD.String(text))
	var kept strings.Builder
	kept.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.IsSpace(r) || isOther(r) || unicode.In(r, unicode.M, unicode.P) {
			continue
		}
		kept.WriteRune(r)
	}
	return norm.NFKC.String(kept.String())
}

var assigned = []*unicode.RangeTable{
	unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z, unicode.C,
}

// isOther reports whether r is in Unicode category C, including the
// unassigned code points (Cn) that unicode.C leaves out.
func isOther(r rune) bool {
	return unicode.Is(unicode.C, r) || !unicode.In(r, assigned...)
}
