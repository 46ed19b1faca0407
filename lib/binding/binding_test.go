// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binding

import (
	"bytes"
	"strings"
	"testing"
)

func TestGeneratorsSetAndClearLastError(t *testing.T) {
	session := NewSession()

	if _, ok := session.GenMetaCode("", "", nil, 64); ok {
		t.Fatal("GenMetaCode with empty name succeeded")
	}
	if session.LastError() == "" {
		t.Error("LastError empty after failure")
	}
	if session.LastErrorKind() != "ValidationError" {
		t.Errorf("LastErrorKind = %q, want ValidationError", session.LastErrorKind())
	}

	code, ok := session.GenMetaCode("Die Unendliche Geschichte", "", nil, 64)
	if !ok {
		t.Fatalf("GenMetaCode: %s", session.LastError())
	}
	if code != "ISCC:AAAZXZ6OU74YAZIM" {
		t.Errorf("GenMetaCode = %s, want ISCC:AAAZXZ6OU74YAZIM", code)
	}
	if session.LastError() != "" || session.LastErrorKind() != "" {
		t.Errorf("last error not cleared: %q (%q)", session.LastError(), session.LastErrorKind())
	}
}

func TestGeneratorVectors(t *testing.T) {
	session := NewSession()
	tests := []struct {
		name string
		call func() (string, bool)
		want string
	}{
		{"text", func() (string, bool) { return session.GenTextCode("Hello World", 64) }, "ISCC:EAASKDNZNYGUUF5A"},
		{"image", func() (string, bool) { return session.GenImageCode(make([]byte, 1024), 64) }, "ISCC:EEAQAAAAAAAAAAAA"},
		{"instance", func() (string, bool) { return session.GenInstanceCode(nil, 64) }, "ISCC:IAA26E2JXH27TING"},
		{"audio", func() (string, bool) { return session.GenAudioCode(nil, 64) }, "ISCC:EIAQAAAAAAAAAAAA"},
	}
	for _, test := range tests {
		got, ok := test.call()
		if !ok {
			t.Fatalf("%s: %s", test.name, session.LastError())
		}
		if got != test.want {
			t.Errorf("%s = %s, want %s", test.name, got, test.want)
		}
	}
}

func TestUnsupportedLengthKind(t *testing.T) {
	session := NewSession()
	if _, ok := session.GenDataCode([]byte("x"), 48); ok {
		t.Fatal("GenDataCode(48) succeeded")
	}
	if session.LastErrorKind() != "UnsupportedLength" {
		t.Errorf("LastErrorKind = %q, want UnsupportedLength", session.LastErrorKind())
	}
}

func TestHasherHandles(t *testing.T) {
	session := NewSession()
	handle := session.NewDataHasher()
	if handle == 0 {
		t.Fatal("NewDataHasher returned the zero handle")
	}
	for _, piece := range []string{"Hello", " World"} {
		if !session.Update(handle, []byte(piece)) {
			t.Fatalf("Update: %s", session.LastError())
		}
	}
	streamed, ok := session.Finalize(handle, 64)
	if !ok {
		t.Fatalf("Finalize: %s", session.LastError())
	}
	whole, ok := session.GenDataCode([]byte("Hello World"), 64)
	if !ok {
		t.Fatalf("GenDataCode: %s", session.LastError())
	}
	if streamed != whole {
		t.Errorf("streamed = %s, one-shot = %s", streamed, whole)
	}

	if session.Update(handle, []byte("more")) {
		t.Error("Update after Finalize succeeded")
	}
	if session.LastErrorKind() != "StateError" {
		t.Errorf("LastErrorKind = %q, want StateError", session.LastErrorKind())
	}

	session.Destroy(handle)
	session.Destroy(handle)
	session.Destroy(0)
	session.Destroy(9999)
	if session.LiveHandles() != 0 {
		t.Errorf("LiveHandles = %d, want 0", session.LiveHandles())
	}
	if _, ok := session.Finalize(handle, 64); ok {
		t.Error("Finalize on destroyed handle succeeded")
	}
	if session.LastErrorKind() != "StateError" {
		t.Errorf("LastErrorKind = %q, want StateError", session.LastErrorKind())
	}
}

func TestInstanceHandleNoUpdates(t *testing.T) {
	session := NewSession()
	handle := session.NewInstanceHasher()
	defer session.Destroy(handle)
	code, ok := session.Finalize(handle, 64)
	if !ok {
		t.Fatalf("Finalize: %s", session.LastError())
	}
	if code != "ISCC:IAA26E2JXH27TING" {
		t.Errorf("Finalize = %s, want ISCC:IAA26E2JXH27TING", code)
	}
}

func TestHandlesAreDistinct(t *testing.T) {
	session := NewSession()
	first := session.NewInstanceHasher()
	second := session.NewInstanceHasher()
	if first == second {
		t.Fatalf("handles collide: %d", first)
	}
	if !session.Update(first, []byte("a")) {
		t.Fatalf("Update: %s", session.LastError())
	}
	a, _ := session.Finalize(first, 64)
	b, _ := session.Finalize(second, 64)
	if a == b {
		t.Error("independent hashers produced the same code")
	}
}

func TestBuffers(t *testing.T) {
	session := NewSession()
	buffer, ok := session.MinHash256([]uint32{1, 2, 3})
	if !ok {
		t.Fatalf("MinHash256: %s", session.LastError())
	}
	if buffer.Len() != 32 {
		t.Errorf("MinHash256 length = %d, want 32", buffer.Len())
	}
	buffer.Release()
	buffer.Release()
	if buffer.Bytes() != nil {
		t.Error("Bytes after Release not nil")
	}

	digest := []byte{0xAB, 0xCD}
	simhash, ok := session.SimHash([][]byte{digest})
	if !ok {
		t.Fatalf("SimHash: %s", session.LastError())
	}
	if !bytes.Equal(simhash.Bytes(), digest) {
		t.Errorf("SimHash of one digest = %x, want %x", simhash.Bytes(), digest)
	}
	if _, ok := session.SimHash([][]byte{{1}, {1, 2}}); ok {
		t.Error("SimHash of unequal digests succeeded")
	}
	if session.LastErrorKind() != "ValidationError" {
		t.Errorf("LastErrorKind = %q, want ValidationError", session.LastErrorKind())
	}
}

func TestChunks(t *testing.T) {
	session := NewSession()
	data := bytes.Repeat([]byte("0123456789abcdef"), 2000)
	array, ok := session.Chunks(data, false, 1024)
	if !ok {
		t.Fatalf("Chunks: %s", session.LastError())
	}
	var joined []byte
	for index := range array.Len() {
		joined = append(joined, array.At(index)...)
	}
	if !bytes.Equal(joined, data) {
		t.Error("chunks do not reassemble the input")
	}
	array.Release()
	array.Release()
	if array.Len() != 0 {
		t.Errorf("Len after Release = %d, want 0", array.Len())
	}
	if item := array.At(0); item != nil {
		t.Errorf("At(0) after Release = %x, want nil", item)
	}
	var missing *BufferArray
	if item := missing.At(0); item != nil || missing.Len() != 0 {
		t.Errorf("nil array At(0) = %x, Len = %d", item, missing.Len())
	}

	if _, ok := session.Chunks(data, false, 8); ok {
		t.Error("Chunks with average size 8 succeeded")
	}
}

func TestTextHelpersAndConstants(t *testing.T) {
	session := NewSession()
	if got := session.TextCollapse("Hello, World!"); got != "helloworld" {
		t.Errorf("TextCollapse = %q, want helloworld", got)
	}
	if got := session.TextRemoveNewlines("a\nb"); got != "a b" {
		t.Errorf("TextRemoveNewlines = %q, want %q", got, "a b")
	}
	if got := session.TextTrim(strings.Repeat("a", 200), MetaTrimName()); len(got) != 128 {
		t.Errorf("TextTrim length = %d, want 128", len(got))
	}
	windows, ok := session.SlidingWindow("abcd", 3)
	if !ok || len(windows) != 2 {
		t.Errorf("SlidingWindow = %v, %v", windows, ok)
	}

	constants := map[string][2]int{
		"MetaTrimName":        {MetaTrimName(), 128},
		"MetaTrimDescription": {MetaTrimDescription(), 4096},
		"MetaTrimMeta":        {MetaTrimMeta(), 128_000},
		"IoReadSize":          {IoReadSize(), 4_194_304},
		"TextNgramSize":       {TextNgramSize(), 13},
	}
	for name, pair := range constants {
		if pair[0] != pair[1] {
			t.Errorf("%s() = %d, want %d", name, pair[0], pair[1])
		}
	}
}

func TestDecodeAndDataURL(t *testing.T) {
	session := NewSession()
	if decoded := session.Decode("not a code"); decoded.OK {
		t.Error("Decode of garbage reported OK")
	}
	if decoded := session.Decode("ISCC:IAA26E2JXH27TING"); !decoded.OK || decoded.Bits != 64 {
		t.Errorf("Decode = %+v", decoded)
	}
	url, ok := session.JSONToDataURL(`{"some": "object"}`)
	if !ok {
		t.Fatalf("JSONToDataURL: %s", session.LastError())
	}
	if url != "data:application/json;base64,eyJzb21lIjoib2JqZWN0In0=" {
		t.Errorf("JSONToDataURL = %s", url)
	}
	if _, ok := session.JSONToDataURL("{"); ok {
		t.Error("JSONToDataURL of invalid JSON succeeded")
	}

	units, ok := session.Decompose("ISCC:IAA26E2JXH27TING")
	if !ok || len(units) != 1 || units[0] != "ISCC:IAA26E2JXH27TING" {
		t.Errorf("Decompose = %v, %v (%s)", units, ok, session.LastError())
	}
}

func TestSessionConformanceSelftest(t *testing.T) {
	session := NewSession()
	session.GenTextCode("x", 96)
	if !session.ConformanceSelftest() {
		t.Fatalf("ConformanceSelftest failed: %s", session.LastError())
	}
	if session.LastError() != "" {
		t.Errorf("LastError = %q after passing selftest", session.LastError())
	}
}
