// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/iscc/cmd/iscc/cli"
	"github.com/bureau-foundation/iscc/lib/iscc"
)

// contextReader stops a long read once ctx is cancelled.
type contextReader struct {
	ctx    context.Context
	reader io.Reader
}

func (r contextReader) Read(buffer []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.reader.Read(buffer)
}

type dataParams struct {
	cli.JSONOutput
	bitsOption
	Input inputOptions
}

func dataCommand(env *Environment) *cli.Command {
	var params dataParams
	return &cli.Command{
		Name:    "data",
		Summary: "Generate a Data-Code from a file's bytes",
		Usage:   "iscc data [flags] [file]",
		Description: "Generate a Data-Code from content-defined chunks of file, or of\n" +
			"stdin when file is omitted or \"-\". Similar files yield similar codes.",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("data", &params)
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

			hasher := iscc.NewDataHasher()
			buffer := make([]byte, env.Config.ReadSize)
			size, err := io.CopyBuffer(hasher, contextReader{ctx, onlyReader{input}}, buffer)
			if err != nil {
				return fmt.Errorf("reading %s: %w", input.Name, err)
			}
			result, err := hasher.Finalize(env.bits(params.bitsOption))
			if err != nil {
				return err
			}
			logger.Debug("hashed data", "input", input.Name, "bytes", size, "compression", input.Compression)
			return env.emit(&params.JSONOutput, result, result.Code)
		},
	}
}

// onlyReader hides WriterTo so io.CopyBuffer honours the read size.
type onlyReader struct {
	io.Reader
}

type instanceParams struct {
	cli.JSONOutput
	bitsOption
	Input inputOptions
	CID   bool `flag:"cid" desc:"also print the datahash as a CIDv1"`
}

// instanceResult adds the optional CID to the Instance-Code fields.
type instanceResult struct {
	*iscc.InstanceCode
	CID string `json:"cid,omitempty"`
}

func instanceCommand(env *Environment) *cli.Command {
	var params instanceParams
	return &cli.Command{
		Name:    "instance",
		Summary: "Generate an Instance-Code from a file's exact bytes",
		Usage:   "iscc instance [flags] [file]",
		Description: "Generate an Instance-Code, a BLAKE3 checksum in ISCC form, from\n" +
			"file or stdin. The full multihash and byte count are reported too.",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("instance", &params)
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

			hasher := iscc.NewInstanceHasher()
			buffer := make([]byte, env.Config.ReadSize)
			if _, err := io.CopyBuffer(hasher, contextReader{ctx, onlyReader{input}}, buffer); err != nil {
				return fmt.Errorf("reading %s: %w", input.Name, err)
			}
			code, err := hasher.Finalize(env.bits(params.bitsOption))
			if err != nil {
				return err
			}

			result := instanceResult{InstanceCode: code}
			text := code.Code
			if params.CID {
				result.CID, err = iscc.DatahashCID(code.Datahash)
				if err != nil {
					return err
				}
				text += "\n" + result.CID
			}
			logger.Debug("hashed instance", "input", input.Name, "filesize", code.Filesize)
			return env.emit(&params.JSONOutput, result, text)
		},
	}
}

type sumParams struct {
	cli.JSONOutput
	bitsOption
	Input inputOptions
	Wide  bool `flag:"wide" desc:"256-bit composite of the full Data and Instance digests (also set by config)"`
}

// sumResult is the output of "iscc sum".
type sumResult struct {
	Code     string   `json:"iscc"`
	Units    []string `json:"units"`
	Datahash string   `json:"datahash"`
	Filesize uint64   `json:"filesize"`
}

func sumCommand(env *Environment) *cli.Command {
	var params sumParams
	return &cli.Command{
		Name:    "sum",
		Summary: "Hash a file into a Data + Instance ISCC-CODE in one pass",
		Usage:   "iscc sum [flags] [file]",
		Description: "Read file (or stdin) once, computing a Data-Code and an\n" +
			"Instance-Code together, and combine them into a composite\n" +
			"ISCC-CODE. With --wide the composite carries 128 bits of each.",
		Examples: []cli.Example{
			{Command: "iscc sum --wide archive.tar.zst"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("sum", &params)
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

			bits := env.bits(params.bitsOption)
			wide := params.Wide || env.Config.Wide
			if wide {
				// A wide composite needs the full digests.
				bits = 256
			}
			dataCode, instanceCode, err := iscc.HashReader(contextReader{ctx, input}, bits, env.Config.ReadSize)
			if err != nil {
				return err
			}
			composite, err := iscc.GenIsccCode([]string{dataCode.Code, instanceCode.Code}, wide)
			if err != nil {
				return err
			}
			logger.Debug("summed input",
				"input", input.Name,
				"filesize", instanceCode.Filesize,
				"units", strings.Join(composite.Units, " "),
			)
			return env.emit(&params.JSONOutput, sumResult{
				Code:     composite.Code,
				Units:    composite.Units,
				Datahash: instanceCode.Datahash,
				Filesize: instanceCode.Filesize,
			}, composite.Code)
		},
	}
}
