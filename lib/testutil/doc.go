// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for the iscc packages.
//
// [Bytes] produces deterministic pseudo-random input so chunking and
// hashing tests are reproducible across runs. [WriteFile] places a
// fixture in a per-test temporary directory. [HammingDistance] counts
// differing bits between two digests, the similarity measure every
// content code is judged by.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no dependencies on other packages of the module.
package testutil
