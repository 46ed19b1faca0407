// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// GlobalOptions are the flags accepted before the command name.
type GlobalOptions struct {
	// ConfigPath names a YAML or TOML configuration file.
	ConfigPath string `flag:"config" desc:"configuration file (.yaml, .yml or .toml); defaults to $ISCC_CONFIG"`

	// Verbose enables debug logging.
	Verbose bool `flag:"verbose,v" desc:"enable debug logging"`
}

// ParseGlobalOptions consumes global flags from the front of args and
// returns the options and the remaining arguments, starting at the
// command name. Parsing stops at the first positional argument, so
// command flags are left for [Command.Execute]. A leading help flag is
// passed through untouched.
func ParseGlobalOptions(args []string) (GlobalOptions, []string, error) {
	var options GlobalOptions
	if len(args) > 0 && isHelpFlag(args[0]) {
		return options, args, nil
	}

	flagSet := FlagsFromParams("iscc", &options)
	flagSet.SetInterspersed(false)
	flagSet.SetOutput(io.Discard)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return options, []string{"--help"}, nil
		}
		if suggestion := suggestFlag(args, FlagsFromParams("iscc", &GlobalOptions{})); suggestion != "" {
			return options, nil, fmt.Errorf("%v (did you mean %s?)", err, suggestion)
		}
		return options, nil, err
	}
	return options, flagSet.Args(), nil
}

// GlobalFlagUsages renders the global flags for the root help text.
func GlobalFlagUsages() string {
	return FlagsFromParams("iscc", &GlobalOptions{}).FlagUsages()
}
