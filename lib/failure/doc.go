// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package failure defines the error kinds shared by every ISCC package.
//
// Each kind is a sentinel error. Packages wrap a sentinel with context
// using fmt.Errorf and %w, so callers classify failures with errors.Is
// and the boundary adapter can report a stable kind name with [Kind]:
//
//	if errors.Is(err, failure.ErrUnsupportedLength) {
//	    // pick a supported tier and retry
//	}
//
// The kinds mirror the failure classes of the identifier algorithms:
// invalid caller input, an unsupported bit length, malformed code text,
// an unencodable component, and misuse of a streaming hasher.
package failure
