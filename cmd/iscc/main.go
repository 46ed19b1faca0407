// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// iscc generates, combines and inspects ISCC content codes.
//
// Usage:
//
//	iscc [--config file] [--verbose] <command> [flags] [args]
//
// Run "iscc --help" for the command list.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/iscc/cmd/iscc/cli"
	"github.com/bureau-foundation/iscc/cmd/iscc/commands"
	"github.com/bureau-foundation/iscc/lib/config"
)

func main() {
	if err := run(); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	options, args, err := cli.ParseGlobalOptions(os.Args[1:])
	if err != nil {
		return err
	}
	logger := cli.NewCommandLogger(options.Verbose)

	cfg, err := config.Resolve(options.ConfigPath)
	if err != nil {
		return err
	}
	logger.Debug("configuration resolved",
		"path", options.ConfigPath,
		"bits", cfg.Bits,
		"output", cfg.Output,
		"workers", cfg.Workers,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := commands.Root(&commands.Environment{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Config: cfg,
	})
	return root.Execute(ctx, args, logger)
}
