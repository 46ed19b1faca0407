// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package component implements the ISCC component header codec: the
// binary layout that tags a raw digest with its main type, sub type,
// version and length, and the "ISCC:"-prefixed base32 text form that
// callers exchange.
//
// # Header layout
//
// A header is four variable-length nibble integers ("varnibbles")
// written most significant bit first and zero-padded to a byte
// boundary:
//
//	maintype | subtype | version | length | padding
//
// A varnibble takes 4, 8, 12 or 16 bits depending on its value:
//
//	0xxx                 0 .. 7
//	10xx xxxx            8 .. 71
//	110x xxxx xxxx       72 .. 583
//	1110 xxxx xxxx xxxx  584 .. 4679
//
// All currently defined fields fit in one nibble, so a unit header is
// two bytes: a 64-bit Meta-Code starts 0x00 0x01, a 64-bit Data-Code
// 0x30 0x01.
//
// The length field of a unit header stores bits/32 - 1. The decoded
// form exposes [Decoded.LengthCode] as bits/64, so that the digest
// byte length is always LengthCode * 8 for the supported tiers.
//
// # Tiers
//
// Unit codes produced by this module use one of the bit lengths in
// [Tiers]. [Encode] rejects any other length with
// [failure.ErrUnsupportedLength] before touching the digest.
//
// # Decoding
//
// [Decode] is total: every input, including the empty string or text in
// the wrong alphabet, yields a [Decoded] value. A failed decode has
// OK == false and zero values in every other field except Err.
package component
