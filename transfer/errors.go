// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package transfer

import "errors"

var (
	// ErrNotAllocated is returned when a transfer is used before Allocate or
	// after Release.
	ErrNotAllocated = errors.New("transfer: buffers not allocated")

	// ErrBufferIndex is returned for a buffer index outside [0, BufferCount).
	ErrBufferIndex = errors.New("transfer: buffer index out of range")

	// ErrSizeMismatch is returned when the framebuffer size differs from the
	// allocated size, or a destination has the wrong length.
	ErrSizeMismatch = errors.New("transfer: size mismatch")

	// ErrTimeout is returned when the GPU does not reach a copy's fence
	// value in time.
	ErrTimeout = errors.New("transfer: GPU wait timed out")
)
