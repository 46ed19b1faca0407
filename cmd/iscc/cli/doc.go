// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the iscc tool.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. Commands are assembled into a tree by the commands
// package and dispatched via [Command.Execute], which handles flag
// parsing, subcommand routing, and structured help output with examples.
//
// Flags are usually declared on a parameter struct with flag, desc and
// default tags and bound with [FlagsFromParams]. Embedding [JSONOutput]
// adds the --json flag.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3). This is implemented in
// suggest.go.
//
// Options that apply to the whole tool (--config, --verbose) are parsed
// by [ParseGlobalOptions] before dispatch.
package cli
