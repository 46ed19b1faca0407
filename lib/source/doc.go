// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package source opens the byte streams the command line hashes: a
// file path or "-" for standard input. Streams compressed with zstd or
// LZ4 (frame format) can be decompressed on the fly, either by explicit
// request or by sniffing the frame magic, so a Data-Code or
// Instance-Code describes the original content rather than its
// compressed form.
package source
