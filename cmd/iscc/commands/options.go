// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/iscc/cmd/iscc/cli"
	"github.com/bureau-foundation/iscc/lib/codec"
	"github.com/bureau-foundation/iscc/lib/config"
	"github.com/bureau-foundation/iscc/lib/source"
)

// bitsOption selects the digest length. Zero defers to the config.
type bitsOption struct {
	Bits int `flag:"bits,b" desc:"digest length in bits: 64, 128, 192 or 256 (default from config)"`
}

// inputOptions binds --compression for commands that read a file.
type inputOptions struct {
	Compression string
}

// AddFlags registers --compression.
func (o *inputOptions) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&o.Compression, "compression", "",
		"input decompression: auto, none, zstd or lz4 (default from config)")
}

func (env *Environment) bits(option bitsOption) int {
	if option.Bits != 0 {
		return option.Bits
	}
	return env.Config.Bits
}

func (env *Environment) compression(options inputOptions) (source.Compression, error) {
	name := options.Compression
	if name == "" {
		name = env.Config.Compression
	}
	return source.ParseCompression(name)
}

// readInput returns the decompressed content of path, "-" meaning stdin.
func (env *Environment) readInput(path string, options inputOptions) ([]byte, error) {
	compression, err := env.compression(options)
	if err != nil {
		return nil, err
	}
	return source.ReadAll(path, compression, env.Stdin)
}

// openInput opens path for streaming, "-" meaning stdin.
func (env *Environment) openInput(path string, options inputOptions) (*source.Input, error) {
	compression, err := env.compression(options)
	if err != nil {
		return nil, err
	}
	return source.Open(path, compression, env.Stdin)
}

// emit writes result in the configured format. text is the line
// written in text mode. --json wins over a text config; a cbor config
// wins over both.
func (env *Environment) emit(output *cli.JSONOutput, result any, text string) error {
	switch env.Config.Output {
	case config.OutputCBOR:
		encoded, err := codec.Marshal(result)
		if err != nil {
			return err
		}
		_, err = env.Stdout.Write(encoded)
		return err
	case config.OutputJSON:
		output.SetJSONOutput(true)
	}
	if done, err := output.EmitJSON(env.Stdout, result); done {
		return err
	}
	_, err := fmt.Fprintln(env.Stdout, text)
	return err
}

// decodeJSONC parses JSON that may carry comments and trailing commas
// into target.
func decodeJSONC(data []byte, target any) error {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	if decoder.More() {
		return fmt.Errorf("unexpected data after the JSON value")
	}
	return nil
}

// singleArgument returns the only positional argument, or fallback
// when there is none.
func singleArgument(args []string, fallback, what string) (string, error) {
	switch len(args) {
	case 0:
		if fallback == "" {
			return "", fmt.Errorf("%s is required", what)
		}
		return fallback, nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("expected one %s, got %d arguments", what, len(args))
	}
}
