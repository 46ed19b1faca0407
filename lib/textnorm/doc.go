// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package textnorm normalizes text before it is hashed into Meta- and
// Text-Codes.
//
// [Clean] produces display text: NFKC, control characters removed,
// newlines unified, runs of blank lines collapsed. [RemoveNewlines]
// folds text onto one line. [Trim] cuts text to a byte budget without
// splitting a code point. [Collapse] produces the hashing form: lower
// case, no whitespace, marks, punctuation or control characters.
//
// The functions are pure and safe for concurrent use.
package textnorm
