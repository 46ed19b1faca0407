// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package similarity provides the locality-sensitive hash primitives
// the ISCC generators build on.
//
// [MinHash256] summarizes a set of 32-bit features into a 256-bit
// digest whose Hamming distance to another digest tracks the Jaccard
// distance between the feature sets. [SimHash] folds a list of
// equal-length digests into one digest of the same length by per-bit
// majority vote. [SlidingWindow] and [SlidingWindowBytes] produce the
// overlapping n-grams that feed both.
//
// All functions are pure; the MinHash permutation tables are immutable
// package data.
package similarity
