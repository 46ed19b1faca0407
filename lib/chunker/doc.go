// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package chunker splits byte streams into content-defined chunks.
//
// A boundary is declared where a gear rolling hash over the bytes just
// before it satisfies a mask condition, so an edit moves only the
// boundaries near it. The scan for a boundary begins at a minimum chunk
// size, uses a strict mask up to a center size and a relaxed mask up to
// the maximum size, and cuts at the maximum when no boundary is found.
// All sizes derive from the average chunk size in [Options].
//
// Three entry points produce identical chunks for the same bytes:
//
//   - [Split] chunks an in-memory buffer in one call.
//   - [Chunker] accepts the stream in arbitrary pieces through
//     [Chunker.Feed] and emits chunks as their boundaries become final;
//     [Chunker.Flush] emits the last one.
//   - [Reader] pulls from an io.Reader and returns chunks one at a time.
//
// In [Text] mode boundaries fall only on UTF-8 code point starts, so
// every chunk of valid UTF-8 input is itself valid UTF-8.
//
// Chunk boundaries are part of the Data-Code definition: the gear
// table and the parameter derivation must not change.
package chunker
