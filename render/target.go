// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"
)

// Framebuffer is a CPU-visible color buffer. Each pixel is 4 bytes, R, G, B,
// A, rows tightly packed from the top.
type Framebuffer interface {
	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int

	// Pixels returns direct access to the pixel data.
	Pixels() []byte
}

// PixmapTarget is a Framebuffer backed by an *image.RGBA.
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget creates a width x height framebuffer cleared to zero.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.img.Bounds().Dy()
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte {
	return t.img.Pix
}

// Image returns the underlying *image.RGBA. It shares memory with the target.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// Clear fills the target with c.
func (t *PixmapTarget) Clear(c color.RGBA) {
	pix := t.img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

// Ensure PixmapTarget implements Framebuffer.
var _ Framebuffer = (*PixmapTarget)(nil)
