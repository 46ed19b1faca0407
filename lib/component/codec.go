// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package component

import (
	"fmt"
	"strings"

	"github.com/multiformats/go-base32"

	"github.com/bureau-foundation/iscc/lib/failure"
)

// Prefix starts every textual ISCC code.
const Prefix = "ISCC:"

// Tiers lists the supported digest bit lengths, in ascending order.
var Tiers = [...]int{64, 128, 192, 256}

// MaxBits is the largest supported digest bit length.
const MaxBits = 256

// textEncoding is RFC 4648 base32 with the standard upper-case
// alphabet, no padding, case-insensitive on decode.
var textEncoding = base32.NewEncodingCI("ABCDEFGHIJKLMNOPQRSTUVWXYZ234567").WithPadding(base32.NoPadding)

// CheckBits returns an error wrapping [failure.ErrUnsupportedLength]
// unless bitLength is one of [Tiers].
func CheckBits(bitLength int) error {
	for _, tier := range Tiers {
		if bitLength == tier {
			return nil
		}
	}
	return failure.UnsupportedLength("component: bit length %d not in %v", bitLength, Tiers)
}

// Encode packs a unit component into its "ISCC:"-prefixed text form.
// The digest is truncated to bitLength/8 bytes.
//
// Out-of-range fields, a composite main type, and a short digest fail
// with [failure.ErrEncoding]. A bit length outside [Tiers] fails with
// both [failure.ErrEncoding] and [failure.ErrUnsupportedLength].
func Encode(mainType MainType, subType SubType, version Version, bitLength int, digest []byte) (string, error) {
	body, err := EncodeUnit(mainType, subType, version, bitLength, digest)
	if err != nil {
		return "", err
	}
	return Prefix + body, nil
}

// EncodeUnit is [Encode] without the "ISCC:" prefix.
func EncodeUnit(mainType MainType, subType SubType, version Version, bitLength int, digest []byte) (string, error) {
	if err := checkFields(mainType, subType, version); err != nil {
		return "", err
	}
	if err := CheckBits(bitLength); err != nil {
		return "", fmt.Errorf("%w: %w", err, failure.ErrEncoding)
	}
	header, err := UnitHeader(mainType, subType, version, bitLength)
	if err != nil {
		return "", err
	}
	return Pack(header, digest)
}

// Pack serializes header followed by the leading header.Bits()/8 bytes
// of digest and returns the base32 text without prefix. It fails with
// [failure.ErrEncoding] when digest is shorter than that.
func Pack(header Header, digest []byte) (string, error) {
	size := header.Bits() / 8
	if len(digest) < size {
		return "", failure.Encoding("component: digest has %d bytes, %s needs %d", len(digest), header.MainType, size)
	}
	raw, err := header.Marshal()
	if err != nil {
		return "", err
	}
	raw = append(raw, digest[:size]...)
	return EncodeText(raw), nil
}

// EncodeText returns the base32 text of raw component bytes, without
// prefix.
func EncodeText(raw []byte) string {
	return textEncoding.EncodeToString(raw)
}

// DecodeText strips an optional "ISCC:" prefix and "-" separators from
// code and returns the raw component bytes. Errors wrap
// [failure.ErrDecode].
func DecodeText(code string) ([]byte, error) {
	body := strings.TrimSpace(code)
	if len(body) >= len(Prefix) && strings.EqualFold(body[:len(Prefix)], Prefix) {
		body = body[len(Prefix):]
	}
	body = strings.ReplaceAll(body, "-", "")
	if body == "" {
		return nil, failure.Decode("component: empty code")
	}
	raw, err := textEncoding.DecodeString(body)
	if err != nil {
		return nil, failure.Decode("component: invalid base32 %q: %v", body, err)
	}
	return raw, nil
}

// Decoded is the result of [Decode]. When OK is false only Err is
// meaningful.
type Decoded struct {
	OK       bool
	MainType MainType
	SubType  SubType
	Version  Version
	// LengthCode is the digest length in units of 64 bits.
	LengthCode int
	// Bits is the digest length in bits.
	Bits   int
	Digest []byte
	// Err describes why decoding failed. It wraps [failure.ErrDecode].
	Err error
}

// Decode parses the text form of a single component or composite
// ISCC-CODE. It never panics and never returns partially decoded
// fields: any malformed input yields Decoded{OK: false, Err: ...}.
func Decode(code string) Decoded {
	header, digest, err := DecodeComponent(code)
	if err != nil {
		return Decoded{Err: err}
	}
	bitLength := header.Bits()
	if bitLength%64 != 0 {
		return Decoded{Err: failure.Decode("component: %s digest of %d bits is not a multiple of 64", header.MainType, bitLength)}
	}
	return Decoded{
		OK:         true,
		MainType:   header.MainType,
		SubType:    header.SubType,
		Version:    header.Version,
		LengthCode: bitLength / 64,
		Bits:       bitLength,
		Digest:     digest,
	}
}

// DecodeComponent parses code into its header and a copy of its digest.
// The body must hold exactly the digest length the header announces.
func DecodeComponent(code string) (Header, []byte, error) {
	raw, err := DecodeText(code)
	if err != nil {
		return Header{}, nil, err
	}
	header, tail, err := DecodeHeader(raw)
	if err != nil {
		return Header{}, nil, err
	}
	size := header.Bits() / 8
	if len(tail) != size {
		return Header{}, nil, failure.Decode("component: %s body has %d bytes, header announces %d", header.MainType, len(tail), size)
	}
	digest := make([]byte, size)
	copy(digest, tail)
	return header, digest, nil
}
