// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package transfer

import (
	"fmt"

	"github.com/gogpu/readback"
	"github.com/gogpu/readback/render"
)

// Memory is a transfer over a CPU framebuffer. Its buffers are host slices
// and a copy resolves as soon as it is issued.
type Memory struct {
	src     render.Framebuffer
	width   int
	height  int
	buffers [readback.BufferCount][]byte

	copies  int
	fetches int
	syncs   int
}

// NewMemory creates a transfer that reads src.
func NewMemory(src render.Framebuffer) *Memory {
	return &Memory{src: src}
}

// Allocate creates the two host buffers. The framebuffer must be
// width x height.
func (m *Memory) Allocate(width, height int) error {
	if m.src == nil {
		return fmt.Errorf("%w: nil framebuffer", ErrNotAllocated)
	}
	if m.src.Width() != width || m.src.Height() != height {
		return fmt.Errorf("%w: framebuffer is %dx%d, want %dx%d",
			ErrSizeMismatch, m.src.Width(), m.src.Height(), width, height)
	}
	m.width, m.height = width, height
	for i := range m.buffers {
		m.buffers[i] = make([]byte, readback.FrameSize(width, height))
	}
	return nil
}

// CopyAsync copies the framebuffer into buffer buf.
func (m *Memory) CopyAsync(buf int) error {
	b, err := m.buffer(buf)
	if err != nil {
		return err
	}
	copy(b, m.src.Pixels())
	m.copies++
	return nil
}

// Fetch copies buffer buf into dst.
func (m *Memory) Fetch(buf int, dst []byte) error {
	b, err := m.buffer(buf)
	if err != nil {
		return err
	}
	if len(dst) != len(b) {
		return fmt.Errorf("%w: destination is %d bytes, want %d", ErrSizeMismatch, len(dst), len(b))
	}
	copy(dst, b)
	m.fetches++
	return nil
}

// ReadSync copies the framebuffer straight into dst.
func (m *Memory) ReadSync(dst []byte) error {
	if m.buffers[0] == nil {
		return ErrNotAllocated
	}
	if len(dst) != readback.FrameSize(m.width, m.height) {
		return fmt.Errorf("%w: destination is %d bytes, want %d",
			ErrSizeMismatch, len(dst), readback.FrameSize(m.width, m.height))
	}
	copy(dst, m.src.Pixels())
	m.syncs++
	return nil
}

// Release drops the host buffers.
func (m *Memory) Release() error {
	for i := range m.buffers {
		m.buffers[i] = nil
	}
	return nil
}

// Copies returns the number of copies issued.
func (m *Memory) Copies() int { return m.copies }

// Fetches returns the number of buffers fetched.
func (m *Memory) Fetches() int { return m.fetches }

// SyncReads returns the number of synchronous reads.
func (m *Memory) SyncReads() int { return m.syncs }

func (m *Memory) buffer(buf int) ([]byte, error) {
	if buf < 0 || buf >= readback.BufferCount {
		return nil, fmt.Errorf("%w: %d", ErrBufferIndex, buf)
	}
	if m.buffers[buf] == nil {
		return nil, ErrNotAllocated
	}
	return m.buffers[buf], nil
}

var _ readback.Transfer = (*Memory)(nil)
