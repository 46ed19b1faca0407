// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR configuration used for machine-readable
// output of the iscc command.
//
// Human-facing output is text or JSON. The batch command can instead
// emit a CBOR sequence (one item per record), which is compact, keeps
// digests as byte strings, and is byte-identical for identical results
// because the encoder uses Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding, no indefinite-length
// items.
//
//	encoder := codec.NewEncoder(os.Stdout)
//	err := encoder.Encode(record)
//
// Result types carry `json` tags only. fxamacker/cbor reads them when
// no `cbor` tag is present, so one tag names a field in both formats.
package codec
