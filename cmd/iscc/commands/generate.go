// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/iscc/cmd/iscc/cli"
	"github.com/bureau-foundation/iscc/lib/iscc"
)

type metaParams struct {
	cli.JSONOutput
	bitsOption
	Description string `flag:"description,d" desc:"description text"`
	Meta        string `flag:"meta" desc:"metadata as a JSON document or a base64 data: URL"`
	MetaFile    string `flag:"meta-file" desc:"read metadata from a file (JSON with comments allowed, or a data: URL); - for stdin"`
}

func metaCommand(env *Environment) *cli.Command {
	var params metaParams
	return &cli.Command{
		Name:    "meta",
		Summary: "Generate a Meta-Code from a name and optional metadata",
		Description: "Generate a Meta-Code from a name, an optional description and\n" +
			"optional structured metadata. JSON metadata is canonicalized before\n" +
			"hashing, so key order and whitespace do not change the code.",
		Usage: "iscc meta [flags] <name>",
		Examples: []cli.Example{
			{Command: `iscc meta "Hello World"`},
			{
				Description: "Attach JSON metadata kept in a commented file",
				Command:     "iscc meta Hello --meta-file metadata.jsonc",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("meta", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			name, err := singleArgument(args, "", "name")
			if err != nil {
				return err
			}
			if params.Meta != "" && params.MetaFile != "" {
				return fmt.Errorf("--meta and --meta-file are mutually exclusive")
			}

			raw := []byte(params.Meta)
			if params.MetaFile != "" {
				raw, err = env.readInput(params.MetaFile, inputOptions{})
				if err != nil {
					return err
				}
			}

			result, err := iscc.GenMetaCode(name, params.Description, metaPayload(raw), env.bits(params.bitsOption))
			if err != nil {
				return err
			}
			logger.Debug("generated meta code", "iscc", result.Code, "metahash", result.Metahash)
			return env.emit(&params.JSONOutput, result, result.Code)
		},
	}
}

// metaPayload passes data URLs through and strips comments from JSON.
func metaPayload(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if bytes.HasPrefix(trimmed, []byte("data:")) {
		return trimmed
	}
	return jsonc.ToJSON(trimmed)
}

type textParams struct {
	cli.JSONOutput
	bitsOption
	Input inputOptions
}

func textCommand(env *Environment) *cli.Command {
	var params textParams
	return &cli.Command{
		Name:    "text",
		Summary: "Generate a Text-Code from UTF-8 text",
		Usage:   "iscc text [flags] [file]",
		Description: "Generate a Text-Code from the UTF-8 text in file, or stdin when\n" +
			"file is omitted or \"-\". Compressed input is detected by magic bytes.",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("text", &params)
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
			result, err := iscc.GenTextCode(string(content), env.bits(params.bitsOption))
			if err != nil {
				return err
			}
			logger.Debug("generated text code", "iscc", result.Code, "characters", result.Characters)
			return env.emit(&params.JSONOutput, result, result.Code)
		},
	}
}

type imageParams struct {
	cli.JSONOutput
	bitsOption
	Input inputOptions
}

func imageCommand(env *Environment) *cli.Command {
	var params imageParams
	return &cli.Command{
		Name:    "image",
		Summary: "Generate an Image-Code from grayscale pixels",
		Usage:   "iscc image [flags] [file]",
		Description: "Generate an Image-Code from 8-bit grayscale pixels in row-major\n" +
			"order. The input is either raw pixel bytes (ideally 32x32) or a\n" +
			"binary PGM (P5) image with a maximum value of 255.",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("image", &params)
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
			pixels, width, height, err := grayscalePixels(content)
			if err != nil {
				return err
			}
			logger.Debug("read image", "pixels", len(pixels), "width", width, "height", height)
			result, err := iscc.GenImageCode(pixels, env.bits(params.bitsOption))
			if err != nil {
				return err
			}
			return env.emit(&params.JSONOutput, result, result.Code)
		},
	}
}

// grayscalePixels strips a binary PGM header when present. Width and
// height are zero for raw input.
func grayscalePixels(content []byte) ([]byte, int, int, error) {
	if !bytes.HasPrefix(content, []byte("P5")) {
		return content, 0, 0, nil
	}

	var fields [3]int
	position := 2
	for index := range fields {
		position = skipPGMSpace(content, position)
		start := position
		for position < len(content) && content[position] >= '0' && content[position] <= '9' {
			fields[index] = fields[index]*10 + int(content[position]-'0')
			position++
		}
		if position == start {
			return nil, 0, 0, fmt.Errorf("malformed PGM header")
		}
	}
	if position >= len(content) {
		return nil, 0, 0, fmt.Errorf("malformed PGM header")
	}
	position++ // single whitespace byte before the raster

	width, height, maxValue := fields[0], fields[1], fields[2]
	if maxValue == 0 || maxValue > 255 {
		return nil, 0, 0, fmt.Errorf("PGM maximum value %d is not supported (want 1 to 255)", maxValue)
	}
	raster := content[position:]
	if len(raster) < width*height {
		return nil, 0, 0, fmt.Errorf("PGM raster has %d bytes, want %d", len(raster), width*height)
	}
	raster = raster[:width*height]
	if maxValue != 255 {
		scaled := make([]byte, len(raster))
		for index, value := range raster {
			scaled[index] = byte(int(value) * 255 / maxValue)
		}
		raster = scaled
	}
	return raster, width, height, nil
}

// skipPGMSpace advances past whitespace and # comments.
func skipPGMSpace(content []byte, position int) int {
	for position < len(content) {
		switch content[position] {
		case ' ', '\t', '\r', '\n':
			position++
		case '#':
			for position < len(content) && content[position] != '\n' {
				position++
			}
		default:
			return position
		}
	}
	return position
}

type audioParams struct {
	cli.JSONOutput
	bitsOption
	Input inputOptions
}

func audioCommand(env *Environment) *cli.Command {
	var params audioParams
	return &cli.Command{
		Name:    "audio",
		Summary: "Generate an Audio-Code from chromaprint features",
		Usage:   "iscc audio [flags] [file]",
		Description: "Generate an Audio-Code from a JSON array of signed 32-bit\n" +
			"chromaprint feature values. Comments are allowed in the JSON.",
		Examples: []cli.Example{
			{Command: "fpcalc -raw -json song.mp3 | jq .fingerprint | iscc audio"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("audio", &params)
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
			var features []int32
			if err := decodeJSONC(content, &features); err != nil {
				return fmt.Errorf("parsing audio features: %w", err)
			}
			logger.Debug("read audio features", "count", len(features))
			result, err := iscc.GenAudioCode(features, env.bits(params.bitsOption))
			if err != nil {
				return err
			}
			return env.emit(&params.JSONOutput, result, result.Code)
		},
	}
}

type videoParams struct {
	cli.JSONOutput
	bitsOption
	Input inputOptions
}

func videoCommand(env *Environment) *cli.Command {
	var params videoParams
	return &cli.Command{
		Name:    "video",
		Summary: "Generate a Video-Code from frame signatures",
		Usage:   "iscc video [flags] [file]",
		Description: "Generate a Video-Code from a JSON array of frame signatures, each\n" +
			"an array of integers of the same length (MPEG-7 style, 380 values).",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("video", &params)
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
			var frames [][]int32
			if err := decodeJSONC(content, &frames); err != nil {
				return fmt.Errorf("parsing video frames: %w", err)
			}
			logger.Debug("read video frames", "count", len(frames))
			result, err := iscc.GenVideoCode(frames, env.bits(params.bitsOption))
			if err != nil {
				return err
			}
			return env.emit(&params.JSONOutput, result, result.Code)
		},
	}
}

type mixedParams struct {
	cli.JSONOutput
	bitsOption
}

func mixedCommand(env *Environment) *cli.Command {
	var params mixedParams
	return &cli.Command{
		Name:    "mixed",
		Summary: "Combine Content-Codes into a Mixed-Code",
		Usage:   "iscc mixed [flags] <code> <code>...",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("mixed", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 0 {
				return fmt.Errorf("at least one Content-Code is required")
			}
			result, err := iscc.GenMixedCode(args, env.bits(params.bitsOption))
			if err != nil {
				return err
			}
			return env.emit(&params.JSONOutput, result, result.Code)
		},
	}
}
