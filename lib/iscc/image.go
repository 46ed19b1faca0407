// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package iscc

import (
	"math"
	"slices"

	"github.com/bureau-foundation/iscc/lib/component"
	"github.com/bureau-foundation/iscc/lib/failure"
)

// imageSide is the edge length of the grid the Image-Code hashes.
const imageSide = 32

// imageBlock is the edge length of each low-frequency block.
const imageBlock = 8

// ImageCode is the result of [GenImageCode].
type ImageCode struct {
	Code string `json:"iscc"`
}

// GenImageCode computes a Content-Code for an image given as grayscale
// intensities in row-major order. A 32x32 grid (1024 values) is hashed
// directly; other sizes are resampled to 32x32 by nearest neighbour,
// as a square grid when the length is a perfect square and as a flat
// sequence otherwise.
//
// The digest compares the coefficients of the four 8x8 low-frequency
// blocks of the grid's 2D DCT against each block's median. A uniform
// image has no structure to compare and yields the all-zero digest.
func GenImageCode(pixels []byte, bits int) (*ImageCode, error) {
	if err := component.CheckBits(bits); err != nil {
		return nil, err
	}
	if len(pixels) == 0 {
		return nil, failure.Validation("iscc: image has no pixels")
	}
	code, err := component.Encode(component.Content, component.Image, component.V0, bits, imageDigest(pixels))
	if err != nil {
		return nil, err
	}
	return &ImageCode{Code: code}, nil
}

// imageDigest returns the 256-bit perceptual digest of pixels.
func imageDigest(pixels []byte) []byte {
	digest := make([]byte, component.MaxBits/8)
	if isUniform(pixels) {
		return digest
	}

	grid := resample(pixels)
	rows := make([][]float64, imageSide)
	for row := range rows {
		values := make([]float64, imageSide)
		for column := range values {
			values[column] = float64(grid[row*imageSide+column])
		}
		rows[row] = dct(values)
	}
	columns := transpose(rows)
	for index, column := range columns {
		columns[index] = dct(column)
	}
	coefficients := transpose(columns)

	position := 0
	for _, origin := range [...][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		block := make([]float64, 0, imageBlock*imageBlock)
		for row := origin[1]; row < origin[1]+imageBlock; row++ {
			block = append(block, coefficients[row][origin[0]:origin[0]+imageBlock]...)
		}
		threshold := median(block)
		for _, value := range block {
			if value > threshold {
				digest[position/8] |= 1 << uint(7-position%8)
			}
			position++
		}
	}
	return digest
}

func isUniform(pixels []byte) bool {
	for _, value := range pixels[1:] {
		if value != pixels[0] {
			return false
		}
	}
	return true
}

// resample maps pixels onto the 32x32 grid by nearest neighbour.
func resample(pixels []byte) []byte {
	count := len(pixels)
	if count == imageSide*imageSide {
		return pixels
	}
	grid := make([]byte, imageSide*imageSide)
	side := int(math.Sqrt(float64(count)))
	if side*side == count {
		for row := range imageSide {
			for column := range imageSide {
				grid[row*imageSide+column] = pixels[(row*side/imageSide)*side+column*side/imageSide]
			}
		}
		return grid
	}
	for index := range grid {
		grid[index] = pixels[index*count/len(grid)]
	}
	return grid
}

func transpose(matrix [][]float64) [][]float64 {
	result := make([][]float64, len(matrix[0]))
	for column := range result {
		result[column] = make([]float64, len(matrix))
		for row := range matrix {
			result[column][row] = matrix[row][column]
		}
	}
	return result
}

// median returns the middle value of values, or the mean of the two
// middle values for an even count.
func median(values []float64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	middle := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[middle]
	}
	return (sorted[middle-1] + sorted[middle]) / 2
}
