// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package iscc

import "math"

// dct returns the unscaled type-II discrete cosine transform of values,
// whose length must be a power of two. It uses the recursive
// factorization of Byeong Gi Lee, as popularized by Nayuki, which keeps
// the floating point results identical across implementations.
func dct(values []float64) []float64 {
	size := len(values)
	if size == 1 {
		return []float64{values[0]}
	}
	half := size / 2
	sums := make([]float64, half)
	differences := make([]float64, half)
	for index := range half {
		low, high := values[index], values[size-1-index]
		sums[index] = low + high
		differences[index] = (low - high) / (math.Cos((float64(index)+0.5)*math.Pi/float64(size)) * 2)
	}
	sums = dct(sums)
	differences = dct(differences)

	result := make([]float64, 0, size)
	for index := range half - 1 {
		result = append(result, sums[index], differences[index]+differences[index+1])
	}
	return append(result, sums[half-1], differences[half-1])
}
