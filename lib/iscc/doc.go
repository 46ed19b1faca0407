// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package iscc generates ISCC codes: compact, similarity-preserving
// identifiers for content and its metadata.
//
// Each generator reduces one kind of input to a digest and hands it to
// the component codec:
//
//   - [GenMetaCode]: name, description and structured metadata.
//   - [GenTextCode]: plain text.
//   - [GenImageCode]: grayscale pixel intensities.
//   - [GenAudioCode]: audio fingerprint feature values.
//   - [GenVideoCode]: per-frame signature vectors.
//   - [GenMixedCode]: several Content-Codes of different media.
//   - [GenDataCode]: raw bytes, by content-defined chunking.
//   - [GenInstanceCode]: raw bytes, by cryptographic hash.
//   - [GenIsccCode]: a composite of unit codes.
//
// [DataHasher] and [InstanceHasher] compute Data- and Instance-Codes
// from input supplied in pieces; the result equals the one-shot
// generator over the concatenated input.
//
// Every generator checks the requested bit length against
// [component.Tiers] before looking at its input, then validates the
// input, then hashes. Errors wrap the sentinels in package failure.
//
// Generators are pure and safe for concurrent use. A hasher belongs to
// one goroutine.
package iscc
