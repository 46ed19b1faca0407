// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package component

import (
	"math/bits"

	"github.com/bureau-foundation/iscc/lib/failure"
)

// Header is the decoded form of a component header. Length is the raw
// length field; its meaning depends on MainType (see [Header.Bits]).
type Header struct {
	MainType MainType
	SubType  SubType
	Version  Version
	Length   uint32
}

// isUnit reports whether a main type uses the (bits/32 - 1) length
// encoding.
func isUnit(mainType MainType) bool {
	switch mainType {
	case Meta, Semantic, Content, Data, Instance, Flake:
		return true
	}
	return false
}

// UnitHeader builds the header of a unit code with the given digest bit
// length. Any length the header can represent is accepted: multiples
// of 32 for unit main types, 64 to 96 in steps of 8 for ID. New codes
// are produced through [Encode], which restricts lengths to [Tiers];
// UnitHeader also serves re-encoding of decoded units whose length was
// chosen elsewhere.
func UnitHeader(mainType MainType, subType SubType, version Version, bitLength int) (Header, error) {
	if err := checkFields(mainType, subType, version); err != nil {
		return Header{}, err
	}
	header := Header{MainType: mainType, SubType: subType, Version: version}
	switch {
	case mainType == Iscc:
		return Header{}, failure.Encoding("component: main type ISCC is a composite, not a unit")
	case mainType == ID:
		if bitLength < 64 || bitLength > 96 || bitLength%8 != 0 {
			return Header{}, failure.Encoding("component: bit length %d invalid for ID (64 to 96, step 8)", bitLength)
		}
		header.Length = uint32((bitLength - 64) / 8)
	default:
		if bitLength < 32 || bitLength%32 != 0 || bitLength/32-1 > maxVarnibble {
			return Header{}, failure.Encoding("component: bit length %d invalid for %s (positive multiple of 32)", bitLength, mainType)
		}
		header.Length = uint32(bitLength/32 - 1)
	}
	return header, nil
}

// CompositeHeader builds the header of a composite ISCC-CODE bundling
// the given optional units (Meta, Semantic, Content) ahead of the
// mandatory Data and Instance units.
func CompositeHeader(subType SubType, version Version, optional []MainType) (Header, error) {
	if err := checkFields(Iscc, subType, version); err != nil {
		return Header{}, err
	}
	length, err := UnitsToLength(optional)
	if err != nil {
		return Header{}, err
	}
	return Header{MainType: Iscc, SubType: subType, Version: version, Length: length}, nil
}

func checkFields(mainType MainType, subType SubType, version Version) error {
	if mainType > Flake {
		return failure.Encoding("component: main type %d out of range", uint8(mainType))
	}
	if subType > Wide {
		return failure.Encoding("component: sub type %d out of range", uint8(subType))
	}
	if version != V0 {
		return failure.Encoding("component: version %d out of range", uint8(version))
	}
	return nil
}

// Bits returns the digest length in bits that follows this header.
func (h Header) Bits() int {
	switch {
	case isUnit(h.MainType):
		return int(h.Length+1) * 32
	case h.MainType == Iscc:
		if h.SubType == Wide {
			return 256
		}
		return bits.OnesCount32(h.Length)*64 + 128
	case h.MainType == ID:
		return int(h.Length)*8 + 64
	}
	return 0
}

// Marshal returns the packed header bytes.
func (h Header) Marshal() ([]byte, error) {
	var writer bitWriter
	for _, value := range [...]uint32{uint32(h.MainType), uint32(h.SubType), uint32(h.Version), h.Length} {
		if err := writeVarnibble(&writer, value); err != nil {
			return nil, failure.Encoding("component: header field %d: %v", value, err)
		}
	}
	return writer.bytes(), nil
}

// DecodeHeader decodes the header at the start of raw and returns it
// together with the bytes that follow it. Errors wrap
// [failure.ErrDecode].
func DecodeHeader(raw []byte) (Header, []byte, error) {
	reader := bitReader{data: raw}
	var fields [4]uint32
	names := [...]string{"main type", "sub type", "version", "length"}
	for index := range fields {
		value, err := readVarnibble(&reader)
		if err != nil {
			return Header{}, nil, failure.Decode("component: header %s: %v", names[index], err)
		}
		fields[index] = value
	}

	// A header of an odd number of nibbles carries one nibble of zero
	// padding.
	if reader.position%8 != 0 && reader.remaining() >= 4 && reader.read(4) != 0 {
		return Header{}, nil, failure.Decode("component: non-zero header padding")
	}
	tailStart := (reader.position + 7) / 8

	if fields[0] > uint32(Flake) {
		return Header{}, nil, failure.Decode("component: main type %d out of range", fields[0])
	}
	if fields[1] > uint32(Wide) {
		return Header{}, nil, failure.Decode("component: sub type %d out of range", fields[1])
	}
	if fields[2] != uint32(V0) {
		return Header{}, nil, failure.Decode("component: unsupported version %d", fields[2])
	}
	if MainType(fields[0]) == Iscc && fields[3] > 7 {
		return Header{}, nil, failure.Decode("component: composite unit field %d out of range", fields[3])
	}

	header := Header{
		MainType: MainType(fields[0]),
		SubType:  SubType(fields[1]),
		Version:  Version(fields[2]),
		Length:   fields[3],
	}
	return header, raw[tailStart:], nil
}
