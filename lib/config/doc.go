// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads defaults for the iscc command from one file.
//
// The file is named by the --config flag or the ISCC_CONFIG environment
// variable, in that order. There is no search path and no per-field
// environment override: what the file says is what runs. Without
// either, [Default] applies.
//
// The format follows the extension: .yaml and .yml are YAML, .toml is
// TOML. Both use the same keys:
//
//	bits: 128
//	wide: false
//	read_size: 4194304
//	workers: 8
//	output: json
//	compression: auto
//	batch_output: ${HOME}/iscc/batch.cbor
//
// Path fields expand ${VAR} and ${VAR:-default}.
package config
