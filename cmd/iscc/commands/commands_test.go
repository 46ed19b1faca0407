// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/bureau-foundation/iscc/cmd/iscc/cli"
	"github.com/bureau-foundation/iscc/lib/codec"
	"github.com/bureau-foundation/iscc/lib/config"
	"github.com/bureau-foundation/iscc/lib/iscc"
	"github.com/bureau-foundation/iscc/lib/testutil"
)

// runCommand executes the command tree with stdin and returns stdout.
func runCommand(t *testing.T, cfg *config.Config, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	env := &Environment{
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Config: cfg,
	}
	err := Root(env).Execute(context.Background(), args, nil)
	return stdout.String(), err
}

func TestGeneratorCommands(t *testing.T) {
	zeros := make([]byte, 1024)
	pgm := append([]byte("P5\n# comment\n32 32\n255\n"), zeros...)

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"meta", "", []string{"meta", "Hello World"}, "ISCC:AAAWN77F727NXSUS"},
		{"meta with JSON", "", []string{"meta", "Hello", "--meta", `{"some":"object"}`}, "ISCC:AAAWKLHFXN63LHL2"},
		{
			"meta with data URL",
			"",
			[]string{"meta", "Hello", "--meta", "data:application/json;charset=utf-8;base64,eyJzb21lIjogIm9iamVjdCJ9"},
			"ISCC:AAAWKLHFXN43ICP2",
		},
		{"meta file from stdin", "{\n  // comment\n  \"some\": \"object\",\n}", []string{"meta", "Hello", "--meta-file", "-"}, "ISCC:AAAWKLHFXN63LHL2"},
		{"text", "Hello World", []string{"text"}, "ISCC:EAASKDNZNYGUUF5A"},
		{"text empty", "", []string{"text", "-"}, "ISCC:EAASL4F2WZY7KBXB"},
		{"image raw", string(zeros), []string{"image"}, "ISCC:EEAQAAAAAAAAAAAA"},
		{"image pgm", string(pgm), []string{"image"}, "ISCC:EEAQAAAAAAAAAAAA"},
		{"audio", "[-1, 0, 1, 2, 3] /* features */", []string{"audio"}, "ISCC:EIAQAAAAAP777777"},
		{"audio empty", "[]", []string{"audio"}, "ISCC:EIAQAAAAAAAAAAAA"},
		{"instance", "", []string{"instance"}, "ISCC:IAA26E2JXH27TING"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			output, err := runCommand(t, config.Default(), test.stdin, test.args...)
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if got := strings.TrimSpace(output); got != test.want {
				t.Errorf("output = %q, want %q", got, test.want)
			}
		})
	}
}

func TestGeneratorCommandsMatchLibrary(t *testing.T) {
	content := bytes.Repeat([]byte("The quick brown fox jumps over the lazy dog. "), 400)
	path := testutil.WriteFile(t, "fox.txt", content)

	dataCode, err := iscc.GenDataCode(content, 128)
	if err != nil {
		t.Fatalf("GenDataCode: %v", err)
	}
	output, err := runCommand(t, config.Default(), "", "data", "--bits", "128", path)
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	if got := strings.TrimSpace(output); got != dataCode.Code {
		t.Errorf("data = %q, want %q", got, dataCode.Code)
	}

	frames := `[[0, 1, 2, 3], [0, 1, 2, 4]]`
	videoCode, err := iscc.GenVideoCode([][]int32{{0, 1, 2, 3}, {0, 1, 2, 4}}, 64)
	if err != nil {
		t.Fatalf("GenVideoCode: %v", err)
	}
	output, err = runCommand(t, config.Default(), frames, "video")
	if err != nil {
		t.Fatalf("video: %v", err)
	}
	if got := strings.TrimSpace(output); got != videoCode.Code {
		t.Errorf("video = %q, want %q", got, videoCode.Code)
	}

	textCode, err := iscc.GenTextCode(string(content), 64)
	if err != nil {
		t.Fatalf("GenTextCode: %v", err)
	}
	imageCode, err := iscc.GenImageCode(make([]byte, 1024), 64)
	if err != nil {
		t.Fatalf("GenImageCode: %v", err)
	}
	mixedCode, err := iscc.GenMixedCode([]string{textCode.Code, imageCode.Code}, 64)
	if err != nil {
		t.Fatalf("GenMixedCode: %v", err)
	}
	output, err = runCommand(t, config.Default(), "", "mixed", textCode.Code, imageCode.Code)
	if err != nil {
		t.Fatalf("mixed: %v", err)
	}
	if got := strings.TrimSpace(output); got != mixedCode.Code {
		t.Errorf("mixed = %q, want %q", got, mixedCode.Code)
	}
}

func TestTextCommandJSON(t *testing.T) {
	output, err := runCommand(t, config.Default(), "Hello World", "text", "--json")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var result iscc.TextCode
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Unmarshal %q: %v", output, err)
	}
	if result.Code != "ISCC:EAASKDNZNYGUUF5A" || result.Characters != 10 {
		t.Errorf("result = %+v, want ISCC:EAASKDNZNYGUUF5A with 10 characters", result)
	}
}

func TestCompressedInput(t *testing.T) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd.NewWriter: %v", err)
	}
	compressed := encoder.EncodeAll([]byte("Hello World"), nil)
	encoder.Close()
	path := testutil.WriteFile(t, "hello.txt.zst", compressed)

	output, err := runCommand(t, config.Default(), "", "text", path)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := strings.TrimSpace(output); got != "ISCC:EAASKDNZNYGUUF5A" {
		t.Errorf("output = %q, want ISCC:EAASKDNZNYGUUF5A", got)
	}

	// Without decompression the compressed bytes themselves are hashed.
	output, err = runCommand(t, config.Default(), "", "instance", "--compression", "none", path)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want, err := iscc.GenInstanceCode(compressed, 64)
	if err != nil {
		t.Fatalf("GenInstanceCode: %v", err)
	}
	if got := strings.TrimSpace(output); got != want.Code {
		t.Errorf("output = %q, want %q", got, want.Code)
	}
}

func TestInstanceCommandCID(t *testing.T) {
	output, err := runCommand(t, config.Default(), "", "instance", "--cid", "--json")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var result struct {
		Code     string `json:"iscc"`
		Datahash string `json:"datahash"`
		Filesize uint64 `json:"filesize"`
		CID      string `json:"cid"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Unmarshal %q: %v", output, err)
	}
	if result.Code != "ISCC:IAA26E2JXH27TING" {
		t.Errorf("iscc = %q, want ISCC:IAA26E2JXH27TING", result.Code)
	}
	if result.Filesize != 0 {
		t.Errorf("filesize = %d, want 0", result.Filesize)
	}
	want, err := iscc.DatahashCID(result.Datahash)
	if err != nil {
		t.Fatalf("DatahashCID: %v", err)
	}
	if result.CID != want {
		t.Errorf("cid = %q, want %q", result.CID, want)
	}
}

func TestSumCodeDecompose(t *testing.T) {
	content := bytes.Repeat([]byte{1, 2, 3, 4, 5, 6, 7}, 5000)
	path := testutil.WriteFile(t, "blob.bin", content)

	output, err := runCommand(t, config.Default(), "", "sum", "--json", path)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	var sum sumResult
	if err := json.Unmarshal([]byte(output), &sum); err != nil {
		t.Fatalf("Unmarshal %q: %v", output, err)
	}

	dataCode, instanceCode, err := iscc.HashReader(bytes.NewReader(content), 64, 0)
	if err != nil {
		t.Fatalf("HashReader: %v", err)
	}
	want, err := iscc.GenIsccCode([]string{dataCode.Code, instanceCode.Code}, false)
	if err != nil {
		t.Fatalf("GenIsccCode: %v", err)
	}
	if sum.Code != want.Code {
		t.Errorf("sum = %q, want %q", sum.Code, want.Code)
	}
	if sum.Filesize != uint64(len(content)) || sum.Datahash != instanceCode.Datahash {
		t.Errorf("sum = %+v, want filesize %d and datahash %s", sum, len(content), instanceCode.Datahash)
	}

	output, err = runCommand(t, config.Default(), "", "code", instanceCode.Code, dataCode.Code)
	if err != nil {
		t.Fatalf("code: %v", err)
	}
	if got := strings.TrimSpace(output); got != want.Code {
		t.Errorf("code = %q, want %q", got, want.Code)
	}

	output, err = runCommand(t, config.Default(), "", "decompose", "--json", sum.Code)
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	var units []decodedCode
	if err := json.Unmarshal([]byte(output), &units); err != nil {
		t.Fatalf("Unmarshal %q: %v", output, err)
	}
	if len(units) != 2 || units[0].Code != dataCode.Code || units[1].Code != instanceCode.Code {
		t.Fatalf("units = %+v, want [%s %s]", units, dataCode.Code, instanceCode.Code)
	}
	if units[0].MainType != "DATA" || units[1].MainType != "INSTANCE" {
		t.Errorf("main types = %s %s, want DATA INSTANCE", units[0].MainType, units[1].MainType)
	}

	output, err = runCommand(t, config.Default(), "", "decompose", sum.Code)
	if err != nil {
		t.Fatalf("decompose table: %v", err)
	}
	if !strings.Contains(output, dataCode.Code) || !strings.Contains(output, instanceCode.Code) {
		t.Errorf("table missing units:\n%s", output)
	}
}

func TestSumWide(t *testing.T) {
	content := []byte("wide composite input")
	path := testutil.WriteFile(t, "wide.bin", content)

	cfg := config.Default()
	cfg.Wide = true
	output, err := runCommand(t, cfg, "", "sum", path)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}

	dataCode, instanceCode, err := iscc.HashReader(bytes.NewReader(content), 256, 0)
	if err != nil {
		t.Fatalf("HashReader: %v", err)
	}
	want, err := iscc.GenIsccCode([]string{dataCode.Code, instanceCode.Code}, true)
	if err != nil {
		t.Fatalf("GenIsccCode: %v", err)
	}
	if got := strings.TrimSpace(output); got != want.Code {
		t.Errorf("sum = %q, want %q", got, want.Code)
	}
}

func TestDecodeCommand(t *testing.T) {
	output, err := runCommand(t, config.Default(), "", "decode", "--json", "ISCC:AAAWKLHFPV6OPKDG")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var result decodedCode
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Unmarshal %q: %v", output, err)
	}
	if !result.OK || result.MainType != "META" || result.Bits != 64 || len(result.Digest) != 16 {
		t.Errorf("result = %+v, want a 64-bit META code", result)
	}

	output, err = runCommand(t, config.Default(), "", "decode", "ISCC:AAAWKLHFPV6OPKDG")
	if err != nil {
		t.Fatalf("decode table: %v", err)
	}
	if !strings.Contains(output, "META") || !strings.Contains(output, "maintype") {
		t.Errorf("table missing fields:\n%s", output)
	}

	output, err = runCommand(t, config.Default(), "", "decode", "not-a-code")
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("decode invalid error = %v, want ExitError 1", err)
	}
	if !strings.Contains(output, "error") {
		t.Errorf("output should report the error:\n%s", output)
	}
}

func TestChunksCommand(t *testing.T) {
	content := make([]byte, 20000)
	for index := range content {
		content[index] = byte(index * 31 % 251)
	}
	path := testutil.WriteFile(t, "chunks.bin", content)

	output, err := runCommand(t, config.Default(), "", "chunks", "--json", "--average", "256", path)
	if err != nil {
		t.Fatalf("chunks: %v", err)
	}
	var chunks []chunkInfo
	if err := json.Unmarshal([]byte(output), &chunks); err != nil {
		t.Fatalf("Unmarshal %q: %v", output, err)
	}
	if len(chunks) == 0 {
		t.Fatal("no chunks")
	}
	var offset int64
	for index, chunk := range chunks {
		if chunk.Offset != offset {
			t.Fatalf("chunk %d offset = %d, want %d", index, chunk.Offset, offset)
		}
		if len(chunk.Feature) != 8 {
			t.Errorf("chunk %d feature = %q, want 8 hex digits", index, chunk.Feature)
		}
		offset += int64(chunk.Size)
	}
	if offset != int64(len(content)) {
		t.Errorf("chunks cover %d bytes, want %d", offset, len(content))
	}
}

func TestDataURLAndConstants(t *testing.T) {
	output, err := runCommand(t, config.Default(), `{"some": "object"} // trailing`, "dataurl")
	if err != nil {
		t.Fatalf("dataurl: %v", err)
	}
	if got := strings.TrimSpace(output); got != "data:application/json;base64,eyJzb21lIjoib2JqZWN0In0=" {
		t.Errorf("dataurl = %q", got)
	}

	output, err = runCommand(t, config.Default(), "", "constants", "--json")
	if err != nil {
		t.Fatalf("constants: %v", err)
	}
	var constants []constant
	if err := json.Unmarshal([]byte(output), &constants); err != nil {
		t.Fatalf("Unmarshal %q: %v", output, err)
	}
	values := map[string]int{}
	for _, item := range constants {
		values[item.Name] = item.Value
	}
	if values["io_read_size"] != 4_194_304 || values["text_ngram_size"] != 13 || values["meta_trim_name"] != 128 {
		t.Errorf("constants = %v", values)
	}
}

func TestSelftestCommand(t *testing.T) {
	output, err := runCommand(t, config.Default(), "", "selftest")
	if err != nil {
		t.Fatalf("selftest: %v", err)
	}
	if !strings.HasPrefix(output, "ok: ") {
		t.Errorf("selftest output = %q, want ok line", output)
	}

	output, err = runCommand(t, config.Default(), "", "selftest", "--json")
	if err != nil {
		t.Fatalf("selftest --json: %v", err)
	}
	var result selftestResult
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Unmarshal %q: %v", output, err)
	}
	if !result.Passed || result.Vectors == 0 {
		t.Errorf("selftest result = %+v, want passed", result)
	}
}

func TestVersionCommand(t *testing.T) {
	output, err := runCommand(t, config.Default(), "", "version", "--json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var info map[string]any
	if err := json.Unmarshal([]byte(output), &info); err != nil {
		t.Fatalf("Unmarshal %q: %v", output, err)
	}
	if _, ok := info["version"]; !ok {
		t.Errorf("version output = %v, want a version field", info)
	}
}

func TestConfiguredOutputFormats(t *testing.T) {
	cfg := config.Default()
	cfg.Output = config.OutputJSON
	output, err := runCommand(t, cfg, "", "meta", "Hello World")
	if err != nil {
		t.Fatalf("meta json: %v", err)
	}
	var result iscc.MetaCode
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Unmarshal %q: %v", output, err)
	}
	if result.Code != "ISCC:AAAWN77F727NXSUS" || result.Name != "Hello World" {
		t.Errorf("result = %+v", result)
	}

	cfg.Output = config.OutputCBOR
	output, err = runCommand(t, cfg, "", "meta", "Hello World")
	if err != nil {
		t.Fatalf("meta cbor: %v", err)
	}
	var decoded map[string]any
	if err := codec.NewDecoder(strings.NewReader(output)).Decode(&decoded); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded["iscc"] != "ISCC:AAAWN77F727NXSUS" {
		t.Errorf("cbor iscc = %v, want ISCC:AAAWN77F727NXSUS", decoded["iscc"])
	}

	cfg = config.Default()
	cfg.Bits = 256
	output, err = runCommand(t, cfg, "", "instance")
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	if got := strings.TrimSpace(output); got != "ISCC:IAD26E2JXH27TINGUBAE32RW3TEUTG6LEXE23QISW7GJVE6K4QPTEYQ" {
		t.Errorf("instance with config bits 256 = %q", got)
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown command", []string{"metta"}, `did you mean "meta"`},
		{"meta without name", []string{"meta"}, "name is required"},
		{"meta conflicting flags", []string{"meta", "x", "--meta", "{}", "--meta-file", "a.json"}, "mutually exclusive"},
		{"meta empty name", []string{"meta", "   "}, "empty"},
		{"unsupported bits", []string{"text", "--bits", "100"}, "100"},
		{"bad compression", []string{"text", "--compression", "gzip"}, "gzip"},
		{"code needs two units", []string{"code", "ISCC:AAAWKLHFPV6OPKDG"}, "at least"},
		{"mixed needs codes", []string{"mixed"}, "at least one"},
		{"decompose garbage", []string{"decompose", "ISCC:!!!!"}, "base32"},
		{"missing file", []string{"data", "/nonexistent/iscc-input"}, "nonexistent"},
		{"unknown flag", []string{"sum", "--wid"}, "did you mean --wide"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := runCommand(t, config.Default(), "", test.args...)
			if err == nil {
				t.Fatal("Execute() = nil, want error")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error = %q, want substring %q", err.Error(), test.want)
			}
		})
	}
}

func TestGrayscalePixels(t *testing.T) {
	raw := []byte{1, 2, 3}
	pixels, width, height, err := grayscalePixels(raw)
	if err != nil || !bytes.Equal(pixels, raw) || width != 0 || height != 0 {
		t.Errorf("raw input = %v %d %d %v, want passthrough", pixels, width, height, err)
	}

	pgm := append([]byte("P5 2 1 15\n"), 15, 0)
	pixels, width, height, err = grayscalePixels(pgm)
	if err != nil {
		t.Fatalf("grayscalePixels: %v", err)
	}
	if !bytes.Equal(pixels, []byte{255, 0}) || width != 2 || height != 1 {
		t.Errorf("scaled = %v %dx%d, want [255 0] 2x1", pixels, width, height)
	}

	for _, bad := range []string{"P5\n", "P5 2 2 255\n\x00", "P5 1 1 65535\n\x00\x00", "P5 x"} {
		if _, _, _, err := grayscalePixels([]byte(bad)); err == nil {
			t.Errorf("grayscalePixels(%q) = nil error", bad)
		}
	}
}
