// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image/color"

	"github.com/chewxy/math32"
)

// Background is the clear color applied before the quad is drawn.
var Background = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// Pattern computes the color of pixel (x, y) of a width x height frame at
// the given frame index.
type Pattern func(x, y, width, height int, frame uint64) color.RGBA

// Gradient returns the test pattern value of pixel (x, y): red is the
// horizontal fraction x/width, green the vertical fraction y/height, blue 0
// and alpha 1, each converted to 8 bits with round-to-nearest.
//
// The arithmetic is float32 to match the fragment shader.
func Gradient(x, y, width, height int) color.RGBA {
	px := math32.Floor(float32(x)) / float32(width)
	py := math32.Floor(float32(y)) / float32(height)
	return color.RGBA{R: unorm8(px), G: unorm8(py), B: 0, A: 255}
}

// GradientPattern is Gradient as a time-invariant Pattern.
func GradientPattern(x, y, width, height int, _ uint64) color.RGBA {
	return Gradient(x, y, width, height)
}

// unorm8 converts a [0, 1] float to an 8-bit unsigned normalized value.
func unorm8(v float32) uint8 {
	v = math32.Max(0, math32.Min(1, v))
	return uint8(math32.Round(v * 255))
}
