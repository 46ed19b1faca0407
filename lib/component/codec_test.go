// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package component

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/bureau-foundation/iscc/lib/failure"
)

func TestEncodeKnownHeaders(t *testing.T) {
	tests := []struct {
		name     string
		mainType MainType
		subType  SubType
		want     string
	}{
		{"image zeros", Content, Image, "ISCC:EEAQAAAAAAAAAAAA"},
		{"meta zeros", Meta, None, "ISCC:AAAQAAAAAAAAAAAA"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Encode(test.mainType, test.subType, V0, 64, make([]byte, 8))
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if got != test.want {
				t.Errorf("Encode = %q, want %q", got, test.want)
			}
		})
	}
}

func TestHeaderBytes(t *testing.T) {
	tests := []struct {
		mainType MainType
		bits     int
		want     []byte
	}{
		{Meta, 64, []byte{0x00, 0x01}},
		{Data, 64, []byte{0x30, 0x01}},
		{Instance, 64, []byte{0x40, 0x01}},
		{Instance, 256, []byte{0x40, 0x07}},
		{Content, 128, []byte{0x20, 0x03}},
	}
	for _, test := range tests {
		header, err := UnitHeader(test.mainType, None, V0, test.bits)
		if err != nil {
			t.Fatalf("UnitHeader(%s, %d): %v", test.mainType, test.bits, err)
		}
		got, err := header.Marshal()
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(got, test.want) {
			t.Errorf("%s/%d header = %x, want %x", test.mainType, test.bits, got, test.want)
		}
	}
}

func TestDecodeKnownCodes(t *testing.T) {
	decoded := Decode("ISCC:IAA26E2JXH27TING")
	if !decoded.OK {
		t.Fatalf("Decode: %v", decoded.Err)
	}
	if decoded.MainType != Instance || decoded.SubType != None || decoded.Version != V0 {
		t.Errorf("header = %s/%s/%s, want INSTANCE/NONE/V0", decoded.MainType, decoded.SubType, decoded.Version)
	}
	if decoded.Bits != 64 || decoded.LengthCode != 1 {
		t.Errorf("length = %d bits (code %d), want 64 (code 1)", decoded.Bits, decoded.LengthCode)
	}
	// Leading bytes of BLAKE3("").
	if got := hex.EncodeToString(decoded.Digest); got != "af1349b9f5f9a1a6" {
		t.Errorf("digest = %s, want af1349b9f5f9a1a6", got)
	}

	data := Decode("ISCC:GAAXL2XYM5BQIAZ3")
	if !data.OK {
		t.Fatalf("Decode data code: %v", data.Err)
	}
	if data.MainType != Data || len(data.Digest) != 8 {
		t.Errorf("data code = %s with %d digest bytes, want DATA with 8", data.MainType, len(data.Digest))
	}
}

func TestDecodeCaseAndSeparators(t *testing.T) {
	for _, code := range []string{
		"iscc:eeaqaaaaaaaaaaaa",
		"EEAQAAAAAAAAAAAA",
		"ISCC:EEAQ-AAAA-AAAA-AAAA",
	} {
		decoded := Decode(code)
		if !decoded.OK {
			t.Errorf("Decode(%q): %v", code, decoded.Err)
			continue
		}
		if decoded.MainType != Content || decoded.SubType != Image {
			t.Errorf("Decode(%q) = %s/%s, want CONTENT/IMAGE", code, decoded.MainType, decoded.SubType)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	digest := make([]byte, 40)
	for index := range digest {
		digest[index] = byte(index*37 + 11)
	}
	for _, mainType := range []MainType{Meta, Semantic, Content, Data, Instance, Flake} {
		for subType := None; subType <= Wide; subType++ {
			for _, bits := range Tiers {
				code, err := Encode(mainType, subType, V0, bits, digest)
				if err != nil {
					t.Fatalf("Encode(%s, %s, %d): %v", mainType, subType, bits, err)
				}
				decoded := Decode(code)
				if !decoded.OK {
					t.Fatalf("Decode(%q): %v", code, decoded.Err)
				}
				if decoded.MainType != mainType || decoded.SubType != subType || decoded.Version != V0 {
					t.Errorf("%q decoded as %s/%s/%s", code, decoded.MainType, decoded.SubType, decoded.Version)
				}
				if decoded.Bits != bits || decoded.LengthCode != bits/64 {
					t.Errorf("%q decoded length %d (code %d), want %d", code, decoded.Bits, decoded.LengthCode, bits)
				}
				if !bytes.Equal(decoded.Digest, digest[:bits/8]) {
					t.Errorf("%q digest = %x, want %x", code, decoded.Digest, digest[:bits/8])
				}
				if len(decoded.Digest) != decoded.LengthCode*8 {
					t.Errorf("%q digest length %d != LengthCode*8", code, len(decoded.Digest))
				}
			}
		}
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		mainType MainType
		subType  SubType
		version  Version
		bits     int
		digest   int
		want     error
	}{
		{"unsupported length", Meta, None, V0, 96, 32, failure.ErrUnsupportedLength},
		{"unsupported length is encoding", Meta, None, V0, 320, 64, failure.ErrEncoding},
		{"zero length", Meta, None, V0, 0, 32, failure.ErrUnsupportedLength},
		{"short digest", Data, None, V0, 128, 8, failure.ErrEncoding},
		{"main type range", MainType(8), None, V0, 64, 8, failure.ErrEncoding},
		{"sub type range", Meta, SubType(9), V0, 64, 8, failure.ErrEncoding},
		{"version range", Meta, None, Version(1), 64, 8, failure.ErrEncoding},
		{"composite", Iscc, Sum, V0, 64, 8, failure.ErrEncoding},
		{"id too long", ID, None, V0, 128, 16, failure.ErrEncoding},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Encode(test.mainType, test.subType, test.version, test.bits, make([]byte, test.digest))
			if !errors.Is(err, test.want) {
				t.Errorf("Encode error = %v, want %v", err, test.want)
			}
		})
	}
}

func TestDecodeIsTotal(t *testing.T) {
	inputs := []string{
		"",
		"ISCC:",
		"ISCC:!!!!",
		"A",
		"ISCC:AA",
		"ISCC:AAAA",
		"ISCC:EEAQAAAAAAAAAA",
		"ISCC:EEAQAAAAAAAAAAAAAAAA",
		"ISCC:7777777777777777",
		"ISCC:IAA26E2JXH27TIN",
		"ISCC:18AQAAAAAAAAAAAA",
		"\x00\xff\xfe",
		"ISCC:ISCC:EEAQAAAAAAAAAAAA",
		// 96-bit Data-Code: a valid header, but off the 64-bit tiers.
		"ISCC:GABAAAAAAAAAAAAAAAAAAAA",
	}
	for _, input := range inputs {
		decoded := Decode(input)
		if decoded.OK {
			t.Errorf("Decode(%q) = OK, want failure", input)
			continue
		}
		if !errors.Is(decoded.Err, failure.ErrDecode) {
			t.Errorf("Decode(%q) error = %v, want ErrDecode", input, decoded.Err)
		}
		if decoded.MainType != 0 || decoded.Bits != 0 || decoded.Digest != nil {
			t.Errorf("Decode(%q) left fields set on failure: %+v", input, decoded)
		}
	}
}

func TestDecodeEveryByteIsSafe(t *testing.T) {
	raw := make([]byte, 12)
	for first := range 256 {
		raw[0] = byte(first)
		for second := range 256 {
			raw[1] = byte(second)
			// Result may be either; it must not panic.
			_ = Decode(EncodeText(raw))
		}
	}
}
