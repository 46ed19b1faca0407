// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file when --config is absent.
const EnvironmentVariable = "ISCC_CONFIG"

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputCBOR = "cbor"
)

var (
	supportedBits         = []int{64, 128, 192, 256}
	supportedOutputs      = []string{OutputText, OutputJSON, OutputCBOR}
	supportedCompressions = []string{"auto", "none", "zstd", "lz4"}
)

// Config holds command defaults. Flags given on the command line win
// over these values.
type Config struct {
	// Bits is the digest length of generated codes.
	Bits int `yaml:"bits" toml:"bits"`

	// Wide requests 256-bit composites when only a Data-Code and an
	// Instance-Code are combined.
	Wide bool `yaml:"wide" toml:"wide"`

	// ReadSize is the block size for streaming file input, in bytes.
	ReadSize int `yaml:"read_size" toml:"read_size"`

	// Workers is the number of records the batch command hashes in
	// parallel.
	Workers int `yaml:"workers" toml:"workers"`

	// Output is the result format: text, json or cbor.
	Output string `yaml:"output" toml:"output"`

	// Compression controls input decompression: auto, none, zstd or lz4.
	Compression string `yaml:"compression" toml:"compression"`

	// BatchOutput is where batch results go. Empty or "-" means stdout.
	BatchOutput string `yaml:"batch_output" toml:"batch_output"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Bits:        64,
		ReadSize:    4_194_304,
		Workers:     runtime.NumCPU(),
		Output:      OutputText,
		Compression: "auto",
	}
}

// Resolve loads flagPath if set, else the file named by ISCC_CONFIG if
// set, else returns Default.
func Resolve(flagPath string) (*Config, error) {
	if flagPath != "" {
		return LoadFile(flagPath)
	}
	if path := os.Getenv(EnvironmentVariable); path != "" {
		return LoadFile(path)
	}
	return Default(), nil
}

// LoadFile loads path over the defaults, expands path variables and
// validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// loadFile decodes a file over the current values. Unknown keys are
// errors in both formats so typos do not pass silently.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	case ".toml":
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		return decoder.Decode(c)
	default:
		return fmt.Errorf("unsupported config extension %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} in path fields.
func (c *Config) expandVariables() {
	c.BatchOutput = expandVars(c.BatchOutput)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(supportedBits, c.Bits) {
		errs = append(errs, fmt.Errorf("bits must be one of %v, got %d", supportedBits, c.Bits))
	}
	if c.ReadSize <= 0 {
		errs = append(errs, fmt.Errorf("read_size must be positive, got %d", c.ReadSize))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if !slices.Contains(supportedOutputs, c.Output) {
		errs = append(errs, fmt.Errorf("output must be one of %v, got %q", supportedOutputs, c.Output))
	}
	if !slices.Contains(supportedCompressions, c.Compression) {
		errs = append(errs, fmt.Errorf("compression must be one of %v, got %q", supportedCompressions, c.Compression))
	}
	return errors.Join(errs...)
}
