// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/pierrec/xxHash/xxHash32"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/iscc/cmd/iscc/cli"
	"github.com/bureau-foundation/iscc/lib/chunker"
	"github.com/bureau-foundation/iscc/lib/component"
	"github.com/bureau-foundation/iscc/lib/iscc"
	"github.com/bureau-foundation/iscc/lib/version"
)

type codeParams struct {
	cli.JSONOutput
	Wide bool `flag:"wide" desc:"256-bit composite when only Data and Instance units are given (also set by config)"`
}

func codeCommand(env *Environment) *cli.Command {
	var params codeParams
	return &cli.Command{
		Name:    "code",
		Summary: "Combine unit codes into a composite ISCC-CODE",
		Usage:   "iscc code [flags] <unit-code>...",
		Description: "Combine unit codes into a composite ISCC-CODE. A Data-Code and an\n" +
			"Instance-Code are required; Meta, Semantic and Content units are\n" +
			"optional. Units may be given in any order.",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("code", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) < 2 {
				return fmt.Errorf("at least a Data-Code and an Instance-Code are required")
			}
			result, err := iscc.GenIsccCode(args, params.Wide || env.Config.Wide)
			if err != nil {
				return err
			}
			return env.emit(&params.JSONOutput, result, result.Code)
		},
	}
}

// decodedCode is the printable form of [component.Decoded].
type decodedCode struct {
	Code       string `json:"iscc"`
	OK         bool   `json:"ok"`
	MainType   string `json:"maintype,omitempty"`
	SubType    string `json:"subtype,omitempty"`
	Version    string `json:"version,omitempty"`
	LengthCode int    `json:"length_code,omitempty"`
	Bits       int    `json:"bits,omitempty"`
	Digest     string `json:"digest,omitempty"`
	Error      string `json:"error,omitempty"`
}

func describe(code string, decoded component.Decoded) decodedCode {
	if !decoded.OK {
		return decodedCode{Code: code, Error: decoded.Err.Error()}
	}
	return decodedCode{
		Code:       code,
		OK:         true,
		MainType:   decoded.MainType.String(),
		SubType:    decoded.SubType.Describe(decoded.MainType),
		Version:    decoded.Version.String(),
		LengthCode: decoded.LengthCode,
		Bits:       decoded.Bits,
		Digest:     hex.EncodeToString(decoded.Digest),
	}
}

type decodeParams struct {
	cli.JSONOutput
}

func decodeCommand(env *Environment) *cli.Command {
	var params decodeParams
	return &cli.Command{
		Name:    "decode",
		Summary: "Show the header fields and digest of a code",
		Usage:   "iscc decode [flags] <code>",
		Description: "Decode a unit or composite code and print its fields. Exits 1\n" +
			"after printing the result when the code does not decode.",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("decode", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			code, err := singleArgument(args, "", "code")
			if err != nil {
				return err
			}
			decoded := component.Decode(code)
			result := describe(code, decoded)

			var rows [][]string
			if result.OK {
				rows = [][]string{
					{"maintype", result.MainType},
					{"subtype", result.SubType},
					{"version", result.Version},
					{"length", strconv.Itoa(result.LengthCode)},
					{"bits", strconv.Itoa(result.Bits)},
					{"digest", result.Digest},
				}
			} else {
				rows = [][]string{{"error", result.Error}}
			}
			text := cli.RenderTable([]string{"field", "value"}, rows, nil)
			if err := env.emit(&params.JSONOutput, result, text); err != nil {
				return err
			}
			if !result.OK {
				logger.Debug("code did not decode", "error", decoded.Err)
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

type decomposeParams struct {
	cli.JSONOutput
}

func decomposeCommand(env *Environment) *cli.Command {
	var params decomposeParams
	return &cli.Command{
		Name:    "decompose",
		Summary: "Split a composite ISCC-CODE into unit codes",
		Usage:   "iscc decompose [flags] <code>",
		Description: "Split a composite ISCC-CODE, or a concatenation of codes, into\n" +
			"standalone unit codes.",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("decompose", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			code, err := singleArgument(args, "", "code")
			if err != nil {
				return err
			}
			units, err := iscc.Decompose(code)
			if err != nil {
				return err
			}

			results := make([]decodedCode, 0, len(units))
			rows := make([][]string, 0, len(units))
			for _, unit := range units {
				result := describe(unit, component.Decode(unit))
				results = append(results, result)
				rows = append(rows, []string{unit, result.MainType, result.SubType, strconv.Itoa(result.Bits)})
			}
			text := cli.RenderTable([]string{"unit", "maintype", "subtype", "bits"}, rows,
				[]cli.Alignment{cli.AlignLeft, cli.AlignLeft, cli.AlignLeft, cli.AlignRight})
			return env.emit(&params.JSONOutput, results, text)
		},
	}
}

type chunksParams struct {
	cli.JSONOutput
	Input   inputOptions
	Text    bool `flag:"text" desc:"cut only at UTF-8 code point boundaries"`
	Average int  `flag:"average" desc:"target average chunk size in bytes" default:"1024"`
}

// chunkInfo describes one content-defined chunk.
type chunkInfo struct {
	Offset  int64  `json:"offset"`
	Size    int    `json:"size"`
	Feature string `json:"feature"`
}

func chunksCommand(env *Environment) *cli.Command {
	var params chunksParams
	return &cli.Command{
		Name:    "chunks",
		Summary: "List the content-defined chunks of a file",
		Usage:   "iscc chunks [flags] [file]",
		Description: "Split file (or stdin) into content-defined chunks and list each\n" +
			"chunk's offset, size and xxh32 feature. With the default average\n" +
			"these are the chunks a Data-Code is computed from.",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("chunks", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			path, err := singleArgument(args, "-", "file")
			if err != nil {
				return err
			}
			input, err := env.openInput(path, params.Input)
			if err != nil {
				return err
			}
			defer input.Close()

			options := chunker.Options{AverageSize: params.Average}
			if params.Text {
				options.Mode = chunker.Text
			}
			reader, err := chunker.NewReader(contextReader{ctx, input}, options, env.Config.ReadSize)
			if err != nil {
				return err
			}

			var chunks []chunkInfo
			var rows [][]string
			for {
				chunk, err := reader.Next()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return fmt.Errorf("reading %s: %w", input.Name, err)
				}
				info := chunkInfo{
					Offset:  chunk.Offset,
					Size:    len(chunk.Data),
					Feature: fmt.Sprintf("%08x", xxHash32.Checksum(chunk.Data, 0)),
				}
				chunks = append(chunks, info)
				rows = append(rows, []string{
					strconv.FormatInt(info.Offset, 10), strconv.Itoa(info.Size), info.Feature,
				})
			}
			logger.Debug("chunked input", "input", input.Name, "chunks", len(chunks), "mode", options.Mode)

			text := cli.RenderTable([]string{"offset", "size", "feature"}, rows,
				[]cli.Alignment{cli.AlignRight, cli.AlignRight, cli.AlignLeft})
			return env.emit(&params.JSONOutput, chunks, text)
		},
	}
}

type dataURLParams struct {
	cli.JSONOutput
	Input inputOptions
}

func dataURLCommand(env *Environment) *cli.Command {
	var params dataURLParams
	return &cli.Command{
		Name:    "dataurl",
		Summary: "Convert a JSON document into a canonical data: URL",
		Usage:   "iscc dataurl [flags] [file]",
		Description: "Canonicalize the JSON document in file (or stdin) and wrap it in a\n" +
			"base64 data: URL, the form a Meta-Code hashes. Comments are allowed.",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("dataurl", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			path, err := singleArgument(args, "-", "file")
			if err != nil {
				return err
			}
			content, err := env.readInput(path, params.Input)
			if err != nil {
				return err
			}
			url, err := iscc.JSONToDataURL(string(metaPayload(content)))
			if err != nil {
				return err
			}
			return env.emit(&params.JSONOutput, map[string]string{"data_url": url}, url)
		},
	}
}

type constantsParams struct {
	cli.JSONOutput
}

// constant is one named library limit.
type constant struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func libraryConstants() []constant {
	return []constant{
		{"meta_trim_name", iscc.MetaTrimName},
		{"meta_trim_description", iscc.MetaTrimDescription},
		{"meta_trim_meta", iscc.MetaTrimMeta},
		{"io_read_size", iscc.IoReadSize},
		{"text_ngram_size", iscc.TextNgramSize},
	}
}

func constantsCommand(env *Environment) *cli.Command {
	var params constantsParams
	return &cli.Command{
		Name:    "constants",
		Summary: "Print the library limits",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("constants", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			constants := libraryConstants()
			rows := make([][]string, 0, len(constants))
			for _, item := range constants {
				rows = append(rows, []string{item.Name, strconv.Itoa(item.Value)})
			}
			text := cli.RenderTable([]string{"name", "value"}, rows,
				[]cli.Alignment{cli.AlignLeft, cli.AlignRight})
			return env.emit(&params.JSONOutput, constants, text)
		},
	}
}

type selftestParams struct {
	cli.JSONOutput
}

type selftestResult struct {
	Vectors int    `json:"vectors"`
	Passed  bool   `json:"passed"`
	Error   string `json:"error,omitempty"`
}

func selftestCommand(env *Environment) *cli.Command {
	var params selftestParams
	return &cli.Command{
		Name:    "selftest",
		Summary: "Recompute built-in known codes",
		Description: `Run every generator against a fixed set of inputs with published
codes and compare the results. Exits 1 when any code differs.`,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("selftest", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			count, err := iscc.ConformanceSelftest()
			result := selftestResult{Vectors: count, Passed: err == nil}
			text := fmt.Sprintf("ok: %d vectors", count)
			if err != nil {
				result.Error = err.Error()
				text = "FAILED:\n" + err.Error()
			}
			if emitErr := env.emit(&params.JSONOutput, result, text); emitErr != nil {
				return emitErr
			}
			if err != nil {
				logger.Debug("selftest failed", "vectors", count)
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

type versionParams struct {
	cli.JSONOutput
}

func versionCommand(env *Environment) *cli.Command {
	var params versionParams
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("version", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			return env.emit(&params.JSONOutput, version.Current(), "iscc "+version.Full())
		},
	}
}
