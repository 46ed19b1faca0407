// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the iscc command tree.
package commands

import (
	"io"

	"github.com/bureau-foundation/iscc/cmd/iscc/cli"
	"github.com/bureau-foundation/iscc/lib/config"
)

// Environment carries the process streams and the resolved
// configuration into every command.
type Environment struct {
	Stdin  io.Reader
	Stdout io.Writer
	Config *config.Config
}

// Root returns the top-level command. A nil Config is replaced by
// [config.Default].
func Root(env *Environment) *cli.Command {
	if env.Config == nil {
		env.Config = config.Default()
	}
	return &cli.Command{
		Name: "iscc",
		Description: "Generate, combine and inspect ISCC codes.\n\n" +
			"Global flags (before the command):\n" + cli.GlobalFlagUsages(),
		Subcommands: []*cli.Command{
			metaCommand(env),
			textCommand(env),
			imageCommand(env),
			audioCommand(env),
			videoCommand(env),
			mixedCommand(env),
			dataCommand(env),
			instanceCommand(env),
			sumCommand(env),
			codeCommand(env),
			decodeCommand(env),
			decomposeCommand(env),
			chunksCommand(env),
			dataURLCommand(env),
			batchCommand(env),
			constantsCommand(env),
			selftestCommand(env),
			versionCommand(env),
		},
		Examples: []cli.Example{
			{
				Description: "Identify a file by content and bytes",
				Command:     "iscc sum movie.mp4",
			},
			{
				Description: "Generate a Meta-Code with a description",
				Command:     `iscc meta "The Neverending Story" --description "A novel by Michael Ende"`,
			},
			{
				Description: "Show the fields of a code",
				Command:     "iscc decode ISCC:AAAWKLHFPV6OPKDG",
			},
		},
	}
}
