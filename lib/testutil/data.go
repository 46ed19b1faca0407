// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"math/bits"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
)

// Bytes returns size deterministic pseudo-random bytes. The same seed
// always yields the same bytes.
func Bytes(size int, seed uint64) []byte {
	random := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	data := make([]byte, size)
	for index := range data {
		data[index] = byte(random.UintN(256))
	}
	return data
}

// WriteFile writes content to name inside a fresh temporary directory
// and returns the full path. The directory is removed when the test
// completes.
func WriteFile(t testing.TB, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}

// HammingDistance returns the number of differing bits between a and b
// over the length of the shorter one.
func HammingDistance(a, b []byte) int {
	distance := 0
	for index := range min(len(a), len(b)) {
		distance += bits.OnesCount8(a[index] ^ b[index])
	}
	return distance
}
