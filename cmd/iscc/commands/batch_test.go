// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/bureau-foundation/iscc/cmd/iscc/cli"
	"github.com/bureau-foundation/iscc/lib/codec"
	"github.com/bureau-foundation/iscc/lib/config"
	"github.com/bureau-foundation/iscc/lib/iscc"
	"github.com/bureau-foundation/iscc/lib/testutil"
)

// expectedSum is the composite of a file hashed without metadata.
func expectedSum(t *testing.T, content []byte, bits int, wide bool) string {
	t.Helper()
	dataCode, instanceCode, err := iscc.HashReader(bytes.NewReader(content), bits, 0)
	if err != nil {
		t.Fatalf("HashReader: %v", err)
	}
	composite, err := iscc.GenIsccCode([]string{dataCode.Code, instanceCode.Code}, wide)
	if err != nil {
		t.Fatalf("GenIsccCode: %v", err)
	}
	return composite.Code
}

func decodeJSONLines(t *testing.T, output string) []batchResult {
	t.Helper()
	var results []batchResult
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		var result batchResult
		if err := json.Unmarshal(scanner.Bytes(), &result); err != nil {
			t.Fatalf("Unmarshal %q: %v", scanner.Text(), err)
		}
		results = append(results, result)
	}
	return results
}

func TestBatchFiles(t *testing.T) {
	directory := t.TempDir()
	contents := [][]byte{
		[]byte("first file"),
		bytes.Repeat([]byte("second "), 3000),
		{},
		bytes.Repeat([]byte{0xAB}, 70000),
	}
	var paths []string
	for index, content := range contents {
		path := filepath.Join(directory, string(rune('a'+index))+".bin")
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		paths = append(paths, path)
	}

	for _, workers := range []string{"1", "3", "16"} {
		t.Run("workers="+workers, func(t *testing.T) {
			args := append([]string{"batch", "--format", "json", "--workers", workers}, paths...)
			output, err := runCommand(t, config.Default(), "", args...)
			if err != nil {
				t.Fatalf("batch: %v", err)
			}
			results := decodeJSONLines(t, output)
			if len(results) != len(paths) {
				t.Fatalf("got %d results, want %d", len(results), len(paths))
			}
			for index, result := range results {
				if result.Path != paths[index] {
					t.Errorf("result %d path = %q, want %q", index, result.Path, paths[index])
				}
				if _, err := uuid.Parse(result.ID); err != nil {
					t.Errorf("result %d id %q is not a UUID: %v", index, result.ID, err)
				}
				if want := expectedSum(t, contents[index], 64, false); result.Code != want {
					t.Errorf("result %d = %q, want %q", index, result.Code, want)
				}
				if len(result.Units) != 2 {
					t.Errorf("result %d units = %v, want Data and Instance", index, result.Units)
				}
			}
		})
	}
}

func TestBatchManifest(t *testing.T) {
	directory := t.TempDir()
	cover := []byte("cover image bytes")
	notes := []byte("liner notes")
	coverPath := filepath.Join(directory, "cover.png")
	notesPath := filepath.Join(directory, "notes.txt")
	for path, content := range map[string][]byte{coverPath: cover, notesPath: notes} {
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	manifest := `[
  // album artwork
  {"id": "cover", "path": "` + coverPath + `", "name": "Cover", "meta": {"year": 1979}},
  {"id": "notes", "path": "` + notesPath + `", "name": "Notes", "description": "Printed inside",
   "meta": "data:application/json;charset=utf-8;base64,eyJzb21lIjogIm9iamVjdCJ9"},
  {"id": "missing", "path": "` + filepath.Join(directory, "missing.bin") + `"},
]`
	manifestPath := filepath.Join(directory, "records.jsonc")
	if err := os.WriteFile(manifestPath, []byte(manifest), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	output, err := runCommand(t, config.Default(), "", "batch", "--manifest", manifestPath, "--format", "json")
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("batch error = %v, want ExitError 1 for the missing file", err)
	}
	results := decodeJSONLines(t, output)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	expect := func(name, description string, meta []byte, content []byte) string {
		metaCode, err := iscc.GenMetaCode(name, description, meta, 64)
		if err != nil {
			t.Fatalf("GenMetaCode: %v", err)
		}
		dataCode, instanceCode, err := iscc.HashReader(bytes.NewReader(content), 64, 0)
		if err != nil {
			t.Fatalf("HashReader: %v", err)
		}
		composite, err := iscc.GenIsccCode([]string{metaCode.Code, dataCode.Code, instanceCode.Code}, false)
		if err != nil {
			t.Fatalf("GenIsccCode: %v", err)
		}
		return composite.Code
	}

	if results[0].ID != "cover" || results[0].Code != expect("Cover", "", []byte(`{"year": 1979}`), cover) {
		t.Errorf("cover result = %+v", results[0])
	}
	if len(results[0].Units) != 3 {
		t.Errorf("cover units = %v, want Meta, Data and Instance", results[0].Units)
	}
	wantNotes := expect("Notes", "Printed inside",
		[]byte("data:application/json;charset=utf-8;base64,eyJzb21lIjogIm9iamVjdCJ9"), notes)
	if results[1].ID != "notes" || results[1].Code != wantNotes {
		t.Errorf("notes result = %+v, want code %s", results[1], wantNotes)
	}
	if results[2].ID != "missing" || results[2].Code != "" || !strings.Contains(results[2].Error, "missing.bin") {
		t.Errorf("missing result = %+v, want an error naming the file", results[2])
	}
}

func TestBatchOutputFormats(t *testing.T) {
	content := []byte("format test")
	path := testutil.WriteFile(t, "format.bin", content)
	want := expectedSum(t, content, 64, false)

	output, err := runCommand(t, config.Default(), "", "batch", path)
	if err != nil {
		t.Fatalf("batch text: %v", err)
	}
	fields := strings.Split(strings.TrimSpace(output), "\t")
	if len(fields) != 3 || fields[1] != path || fields[2] != want {
		t.Errorf("text output = %q, want id, path and %s", output, want)
	}

	destination := filepath.Join(t.TempDir(), "codes.cbor")
	cfg := config.Default()
	cfg.Output = config.OutputCBOR
	cfg.BatchOutput = destination
	output, err = runCommand(t, cfg, "", "batch", path)
	if err != nil {
		t.Fatalf("batch cbor: %v", err)
	}
	if output != "" {
		t.Errorf("stdout = %q, want empty when writing to a file", output)
	}
	encoded, err := os.ReadFile(destination)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var result batchResult
	if err := codec.NewDecoder(bytes.NewReader(encoded)).Decode(&result); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.Code != want || result.Path != path {
		t.Errorf("cbor result = %+v, want %s", result, want)
	}

	output, err = runCommand(t, config.Default(), "", "batch", "--results", destination, "--format", "json")
	if err != nil {
		t.Fatalf("batch --results: %v", err)
	}
	rendered := decodeJSONLines(t, output)
	if len(rendered) != 1 || rendered[0].ID != result.ID || rendered[0].Code != want {
		t.Errorf("re-rendered results = %+v, want %+v", rendered, result)
	}
}

func TestBatchWide(t *testing.T) {
	content := bytes.Repeat([]byte("wide batch "), 100)
	path := testutil.WriteFile(t, "wide.bin", content)

	output, err := runCommand(t, config.Default(), "", "batch", "--wide", "--format", "json", path)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	results := decodeJSONLines(t, output)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if want := expectedSum(t, content, 256, true); results[0].Code != want {
		t.Errorf("wide result = %q, want %q", results[0].Code, want)
	}
}

func TestBatchErrors(t *testing.T) {
	path := testutil.WriteFile(t, "x.bin", []byte("x"))
	manifest := testutil.WriteFile(t, "bad.json", []byte(`[{"path": "x", "colour": "red"}]`))
	noPath := testutil.WriteFile(t, "nopath.json", []byte(`[{"id": "a"}]`))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no records", []string{"batch"}, "no records"},
		{"bad format", []string{"batch", "--format", "xml", path}, "xml"},
		{"unknown manifest field", []string{"batch", "--manifest", manifest}, "colour"},
		{"record without path", []string{"batch", "--manifest", noPath}, "no path"},
		{"two stdin records", []string{"batch", "-", "-"}, "stdin"},
		{"results with files", []string{"batch", "--results", path, path}, "--results"},
		{"results not cbor", []string{"batch", "--results", path}, "reading results"},
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

func TestBatchCancelled(t *testing.T) {
	path := testutil.WriteFile(t, "x.bin", []byte("x"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout bytes.Buffer
	env := &Environment{Stdin: strings.NewReader(""), Stdout: &stdout, Config: config.Default()}
	err := Root(env).Execute(ctx, []string{"batch", path}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing written", stdout.String())
	}
}

func TestMetaBytes(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"null", ""},
		{`"data:application/json;base64,e30="`, "data:application/json;base64,e30="},
		{`{"a": 1}`, `{"a": 1}`},
	}
	for _, test := range tests {
		got, err := metaBytes(json.RawMessage(test.raw))
		if err != nil {
			t.Fatalf("metaBytes(%q): %v", test.raw, err)
		}
		if string(got) != test.want {
			t.Errorf("metaBytes(%q) = %q, want %q", test.raw, got, test.want)
		}
	}
}
