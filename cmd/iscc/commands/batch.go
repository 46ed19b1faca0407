// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/iscc/cmd/iscc/cli"
	"github.com/bureau-foundation/iscc/lib/binding"
	"github.com/bureau-foundation/iscc/lib/codec"
	"github.com/bureau-foundation/iscc/lib/config"
	"github.com/bureau-foundation/iscc/lib/source"
)

type batchParams struct {
	bitsOption
	Input    inputOptions
	Manifest string `flag:"manifest,m" desc:"JSON array of records (comments allowed); - for stdin"`
	Output   string `flag:"output,o" desc:"result file (default from config batch_output, else stdout)"`
	Format   string `flag:"format,f" desc:"result format: text, json or cbor (default from config output)"`
	Workers  int    `flag:"workers,w" desc:"records hashed in parallel (default from config)"`
	Wide     bool   `flag:"wide" desc:"256-bit composites for records without metadata (also set by config)"`
	Results  string `flag:"results,r" desc:"re-render a CBOR result file of an earlier run instead of hashing; - for stdin"`
}

// batchRecord is one manifest entry. Only Path is required.
type batchRecord struct {
	ID          string          `json:"id"`
	Path        string          `json:"path"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Meta        json.RawMessage `json:"meta"`
}

// batchResult is written once per record, in manifest order.
type batchResult struct {
	ID        string   `json:"id"`
	Path      string   `json:"path"`
	Code      string   `json:"iscc,omitempty"`
	Units     []string `json:"units,omitempty"`
	Error     string   `json:"error,omitempty"`
	ErrorKind string   `json:"error_kind,omitempty"`
}

func batchCommand(env *Environment) *cli.Command {
	var params batchParams
	return &cli.Command{
		Name:    "batch",
		Summary: "Compute ISCC-CODEs for many files in parallel",
		Usage:   "iscc batch [flags] [file...]",
		Description: "Compute a composite ISCC-CODE for every record of a manifest, or\n" +
			"for every file argument. Each record gets a Data-Code and an\n" +
			"Instance-Code from one pass over its file, plus a Meta-Code when\n" +
			"the record has a name. A record without an id gets a random UUID.\n\n" +
			"Manifest records look like:\n\n" +
			"  {\"id\": \"a1\", \"path\": \"cover.png\", \"name\": \"Cover\", \"meta\": {\"year\": 1979}}\n\n" +
			"Failed records are reported in the output and make the command\n" +
			"exit 1 after all records are processed.",
		Examples: []cli.Example{
			{
				Description: "Hash a directory into CBOR",
				Command:     "iscc batch --format cbor --output codes.cbor media/*",
			},
			{
				Description: "Hash the records of a manifest with 8 workers",
				Command:     "iscc batch --manifest records.jsonc --workers 8 --format json",
			},
			{
				Description: "Print an earlier CBOR run as text",
				Command:     "iscc batch --results codes.cbor --format text",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("batch", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			format := params.Format
			if format == "" {
				format = env.Config.Output
			}
			if !slices.Contains([]string{config.OutputText, config.OutputJSON, config.OutputCBOR}, format) {
				return fmt.Errorf("unsupported format %q (want text, json or cbor)", format)
			}

			start := time.Now()
			var results []batchResult
			workers := 0
			if params.Results != "" {
				if params.Manifest != "" || len(args) > 0 {
					return fmt.Errorf("--results cannot be combined with --manifest or file arguments")
				}
				var err error
				results, err = env.readBatchResults(params.Results)
				if err != nil {
					return err
				}
			} else {
				records, err := env.batchRecords(params.Manifest, args)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					return fmt.Errorf("no records: pass files or --manifest")
				}
				compression, err := env.compression(params.Input)
				if err != nil {
					return err
				}

				job := batchJob{
					bits:        env.bits(params.bitsOption),
					wide:        params.Wide || env.Config.Wide,
					compression: compression,
					readSize:    env.Config.ReadSize,
					stdin:       env.Stdin,
				}
				workers = params.Workers
				if workers <= 0 {
					workers = env.Config.Workers
				}
				results = job.run(ctx, records, workers, logger)
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			destination := params.Output
			if destination == "" {
				destination = env.Config.BatchOutput
			}
			if err := env.writeBatchResults(destination, format, results); err != nil {
				return err
			}

			failed := 0
			for _, result := range results {
				if result.Error != "" {
					failed++
				}
			}
			logger.Info("batch complete",
				"records", len(results),
				"failed", failed,
				"workers", workers,
				"elapsed", time.Since(start),
			)
			if failed > 0 {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

// readBatchResults decodes the CBOR result sequence written by an
// earlier run with --format cbor.
func (env *Environment) readBatchResults(path string) ([]batchResult, error) {
	input, err := source.Open(path, source.CompressionAuto, env.Stdin)
	if err != nil {
		return nil, err
	}
	defer input.Close()

	var results []batchResult
	decoder := codec.NewDecoder(input)
	for {
		var result batchResult
		err := decoder.Decode(&result)
		if errors.Is(err, io.EOF) {
			return results, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading results %s: record %d: %w", input.Name, len(results), err)
		}
		results = append(results, result)
	}
}

// batchRecords reads the manifest, if any, then appends one record per
// file argument. Records without an id get a random UUID.
func (env *Environment) batchRecords(manifest string, paths []string) ([]batchRecord, error) {
	var records []batchRecord
	if manifest != "" {
		content, err := source.ReadAll(manifest, source.CompressionAuto, env.Stdin)
		if err != nil {
			return nil, err
		}
		if err := decodeJSONC(content, &records); err != nil {
			return nil, fmt.Errorf("parsing manifest %s: %w", manifest, err)
		}
	}
	for _, path := range paths {
		records = append(records, batchRecord{Path: path})
	}
	stdinUsed := manifest == "-"
	for index := range records {
		if records[index].Path == "" {
			return nil, fmt.Errorf("record %d has no path", index)
		}
		if records[index].Path == "-" {
			if stdinUsed {
				return nil, fmt.Errorf("record %d reads stdin, which is already used by the manifest or an earlier record", index)
			}
			stdinUsed = true
		}
		if records[index].ID == "" {
			records[index].ID = uuid.NewString()
		}
	}
	return records, nil
}

// batchJob holds the settings shared by every record of a run.
type batchJob struct {
	bits        int
	wide        bool
	compression source.Compression
	readSize    int
	stdin       io.Reader
}

// run hashes records on workers goroutines and returns the results in
// record order. Each worker owns one binding.Session. Records not
// started before ctx is cancelled are left without a result.
func (j batchJob) run(ctx context.Context, records []batchRecord, workers int, logger *slog.Logger) []batchResult {
	workers = max(1, min(workers, len(records)))
	results := make([]batchResult, len(records))
	indices := make(chan int)

	var group sync.WaitGroup
	for worker := range workers {
		group.Add(1)
		go func() {
			defer group.Done()
			session := binding.NewSession()
			for index := range indices {
				results[index] = j.hash(ctx, session, records[index])
				logger.Debug("record hashed",
					"worker", worker,
					"id", results[index].ID,
					"path", results[index].Path,
					"iscc", results[index].Code,
				)
			}
		}()
	}

feed:
	for index := range records {
		select {
		case indices <- index:
		case <-ctx.Done():
			break feed
		}
	}
	close(indices)
	group.Wait()
	return results
}

// hash computes the composite code of one record through session.
func (j batchJob) hash(ctx context.Context, session *binding.Session, record batchRecord) batchResult {
	result := batchResult{ID: record.ID, Path: record.Path}
	fail := func(message, kind string) batchResult {
		result.Error = message
		result.ErrorKind = kind
		return result
	}

	bits := j.bits
	if j.wide && record.Name == "" {
		bits = 256
	}

	input, err := source.Open(record.Path, j.compression, j.stdin)
	if err != nil {
		return fail(err.Error(), "")
	}
	defer input.Close()

	dataHandle := session.NewDataHasher()
	defer session.Destroy(dataHandle)
	instanceHandle := session.NewInstanceHasher()
	defer session.Destroy(instanceHandle)

	buffer := make([]byte, j.readSize)
	for {
		if err := ctx.Err(); err != nil {
			return fail(err.Error(), "")
		}
		count, readErr := input.Read(buffer)
		if count > 0 {
			if !session.Update(dataHandle, buffer[:count]) || !session.Update(instanceHandle, buffer[:count]) {
				return fail(session.LastError(), session.LastErrorKind())
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return fail(fmt.Sprintf("reading %s: %v", input.Name, readErr), "")
		}
	}

	var codes []string
	if record.Name != "" {
		meta, err := metaBytes(record.Meta)
		if err != nil {
			return fail(err.Error(), "")
		}
		code, ok := session.GenMetaCode(record.Name, record.Description, meta, bits)
		if !ok {
			return fail(session.LastError(), session.LastErrorKind())
		}
		codes = append(codes, code)
	}
	for _, handle := range []binding.Handle{dataHandle, instanceHandle} {
		code, ok := session.Finalize(handle, bits)
		if !ok {
			return fail(session.LastError(), session.LastErrorKind())
		}
		codes = append(codes, code)
	}

	composite, ok := session.GenIsccCode(codes, j.wide)
	if !ok {
		return fail(session.LastError(), session.LastErrorKind())
	}
	result.Code = composite
	result.Units = codes
	return result
}

// metaBytes turns a record's meta field into GenMetaCode input: a JSON
// string is taken as a data URL, anything else as a JSON document.
func metaBytes(raw json.RawMessage) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '"' {
		var url string
		if err := json.Unmarshal(trimmed, &url); err != nil {
			return nil, fmt.Errorf("parsing meta: %w", err)
		}
		return []byte(url), nil
	}
	return trimmed, nil
}

// writeBatchResults writes results to destination ("" or "-" for
// stdout) in format: tab-separated text, JSON Lines or a CBOR sequence.
func (env *Environment) writeBatchResults(destination, format string, results []batchResult) (err error) {
	output := env.Stdout
	if destination != "" && destination != "-" {
		file, err := os.Create(destination)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := file.Close(); err == nil {
				err = closeErr
			}
		}()
		output = file
	}

	switch format {
	case config.OutputCBOR:
		encoder := codec.NewEncoder(output)
		for _, result := range results {
			if err := encoder.Encode(result); err != nil {
				return err
			}
		}
	case config.OutputJSON:
		encoder := json.NewEncoder(output)
		for _, result := range results {
			if err := encoder.Encode(result); err != nil {
				return err
			}
		}
	default:
		for _, result := range results {
			value := result.Code
			if result.Error != "" {
				value = "error: " + result.Error
			}
			if _, err := fmt.Fprintf(output, "%s\t%s\t%s\n", result.ID, result.Path, value); err != nil {
				return err
			}
		}
	}
	return nil
}
