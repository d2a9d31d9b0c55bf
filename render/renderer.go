// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "errors"

var (
	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("render: invalid dimensions")

	// ErrNilDevice is returned when a GPU renderer is created without a device.
	ErrNilDevice = errors.New("render: nil device")

	// ErrTimeout is returned when a submitted frame does not complete in time.
	ErrTimeout = errors.New("render: GPU wait timed out")
)

// Renderer produces one frame per Draw call.
//
// Draw mutates the renderer's framebuffer and has no other visible result.
// Renderers are NOT thread-safe; the render loop is the only caller.
//
// Example:
//
//	r := render.NewSoftware(512, 512)
//	for {
//	    if err := r.Draw(); err != nil {
//	        return err
//	    }
//	    // read pixels back
//	}
type Renderer interface {
	// Draw renders one frame.
	Draw() error

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

func validSize(width, height int) bool {
	return width > 0 && height > 0
}
