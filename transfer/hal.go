// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package transfer

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/readback"
	"github.com/gogpu/wgpu/hal"
	"go.uber.org/multierr"
)

// syncTimeout bounds the blocking wait of the synchronous path.
const syncTimeout = 5 * time.Second

// staging is one transfer buffer: the GPU buffer, the fence value its last
// copy signals, and the command buffer that carried that copy.
type staging struct {
	buf   hal.Buffer
	value uint64
	cmd   hal.CommandBuffer
}

// HALOption configures a HAL transfer.
type HALOption func(*HAL)

// WithFenceTimeout makes Fetch wait up to d for the fetched buffer's copy
// to complete before reading it. A timeout is logged at Warn level and the
// buffer is read anyway. Zero disables the wait.
func WithFenceTimeout(d time.Duration) HALOption {
	return func(h *HAL) {
		h.fenceTimeout = d
	}
}

// WithSourceFormat sets the texture format of the copy source. BGRA8Unorm
// sources are swizzled to RGBA on fetch.
func WithSourceFormat(f gputypes.TextureFormat) HALOption {
	return func(h *HAL) {
		h.format = f
	}
}

// WithLabel sets the prefix of GPU object labels.
func WithLabel(label string) HALOption {
	return func(h *HAL) {
		h.label = label
	}
}

// HAL is a transfer that copies a HAL texture into two MapRead staging
// buffers.
//
// CopyAsync encodes a CopyTextureToBuffer and submits it with a fence
// signal, returning immediately. Fetch reads a staging buffer with
// Queue.ReadBuffer, strips row padding and converts to RGBA. The command
// buffer of a copy is freed when the same staging buffer is reused, two
// ticks after submission.
//
// HAL is not safe for concurrent use.
type HAL struct {
	device hal.Device
	queue  hal.Queue
	src    hal.Texture

	format       gputypes.TextureFormat
	label        string
	fenceTimeout time.Duration

	width   int
	height  int
	buffers [readback.BufferCount]staging
	syncBuf hal.Buffer
	scratch []byte
	fence   hal.Fence
	value   uint64
}

// NewHAL creates a transfer reading src on the given device. The texture
// must have CopySrc usage.
func NewHAL(device hal.Device, queue hal.Queue, src hal.Texture, opts ...HALOption) (*HAL, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("transfer: nil device or queue")
	}
	if src == nil {
		return nil, fmt.Errorf("transfer: nil source texture")
	}
	h := &HAL{
		device: device,
		queue:  queue,
		src:    src,
		format: gputypes.TextureFormatRGBA8Unorm,
		label:  "readback",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Allocate creates the two staging buffers, the synchronous-path buffer,
// the host scratch area and the fence.
func (h *HAL) Allocate(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrSizeMismatch, width, height)
	}
	if h.fence != nil {
		if err := h.Release(); err != nil {
			return err
		}
	}
	h.width, h.height = width, height
	size := uint64(StagingSize(width, height)) //nolint:gosec // validated positive

	for i := range h.buffers {
		buf, err := h.createStaging(fmt.Sprintf("%s_staging_%d", h.label, i), size)
		if err != nil {
			return multierr.Append(err, h.Release())
		}
		h.buffers[i] = staging{buf: buf}
	}
	syncBuf, err := h.createStaging(h.label+"_staging_sync", size)
	if err != nil {
		return multierr.Append(err, h.Release())
	}
	h.syncBuf = syncBuf

	fence, err := h.device.CreateFence()
	if err != nil {
		return multierr.Append(fmt.Errorf("create fence: %w", err), h.Release())
	}
	h.fence = fence
	h.scratch = make([]byte, size)

	readback.Logger().Debug("transfer: staging buffers allocated",
		"width", width, "height", height,
		"bytesPerRow", AlignedBytesPerRow(width), "bufferBytes", size)
	return nil
}

func (h *HAL) createStaging(label string, size uint64) (hal.Buffer, error) {
	buf, err := h.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer %s: %w", label, err)
	}
	return buf, nil
}

// CopyAsync issues a copy of the source texture into staging buffer buf
// and returns without waiting for it.
func (h *HAL) CopyAsync(buf int) error {
	if buf < 0 || buf >= readback.BufferCount {
		return fmt.Errorf("%w: %d", ErrBufferIndex, buf)
	}
	if h.fence == nil {
		return ErrNotAllocated
	}
	st := &h.buffers[buf]

	// The previous copy into this buffer was submitted two ticks ago.
	if err := h.retire(st); err != nil {
		return err
	}

	cmd, err := h.encodeCopy(st.buf)
	if err != nil {
		return err
	}
	h.value++
	if err := h.queue.Submit([]hal.CommandBuffer{cmd}, h.fence, h.value); err != nil {
		h.device.FreeCommandBuffer(cmd)
		return fmt.Errorf("submit copy: %w", err)
	}
	st.cmd = cmd
	st.value = h.value
	return nil
}

// retire waits for the copy held by st and frees its command buffer.
func (h *HAL) retire(st *staging) error {
	if st.cmd == nil {
		return nil
	}
	if err := h.wait(st.value, syncTimeout); err != nil {
		return err
	}
	h.device.FreeCommandBuffer(st.cmd)
	st.cmd = nil
	return nil
}

// wait blocks until the fence reaches value. A timeout is ErrTimeout.
func (h *HAL) wait(value uint64, timeout time.Duration) error {
	ok, err := h.device.Wait(h.fence, value, timeout)
	if err != nil {
		return fmt.Errorf("wait for copy %d: %w", value, err)
	}
	if !ok {
		return fmt.Errorf("%w: copy %d after %v", ErrTimeout, value, timeout)
	}
	return nil
}

// encodeCopy records the texture to buffer copy, bracketed by the barriers
// that move the texture into CopySrc and back to RenderAttachment.
func (h *HAL) encodeCopy(dst hal.Buffer) (hal.CommandBuffer, error) {
	encoder, err := h.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: h.label + "_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(h.label + "_copy"); err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	// After a render pass the texture is in COLOR_ATTACHMENT_OPTIMAL layout;
	// CopyTextureToBuffer requires TRANSFER_SRC_OPTIMAL.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: h.src,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	w, hh := uint32(h.width), uint32(h.height)                 //nolint:gosec // validated positive
	alignedBytesPerRow := uint32(AlignedBytesPerRow(h.width)) //nolint:gosec // validated positive
	encoder.CopyTextureToBuffer(h.src, dst, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: hh},
		TextureBase:  hal.ImageCopyTexture{Texture: h.src, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: hh, DepthOrArrayLayers: 1},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: h.src,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmd, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	return cmd, nil
}

// Fetch reads staging buffer buf into dst as tightly packed RGBA8.
func (h *HAL) Fetch(buf int, dst []byte) error {
	if buf < 0 || buf >= readback.BufferCount {
		return fmt.Errorf("%w: %d", ErrBufferIndex, buf)
	}
	if h.fence == nil {
		return ErrNotAllocated
	}
	st := &h.buffers[buf]

	if h.fenceTimeout > 0 && st.value > 0 {
		err := h.wait(st.value, h.fenceTimeout)
		switch {
		case errors.Is(err, ErrTimeout):
			// The buffer is read anyway, as without the option.
			readback.Logger().Warn("transfer: fence wait timed out",
				"buffer", buf, "value", st.value, "timeout", h.fenceTimeout)
		case err != nil:
			return err
		}
	}
	return h.read(st.buf, dst)
}

// ReadSync copies the source texture into the synchronous-path buffer,
// waits for the GPU, and reads the result into dst.
func (h *HAL) ReadSync(dst []byte) error {
	if h.fence == nil {
		return ErrNotAllocated
	}
	cmd, err := h.encodeCopy(h.syncBuf)
	if err != nil {
		return err
	}
	defer h.device.FreeCommandBuffer(cmd)

	h.value++
	if err := h.queue.Submit([]hal.CommandBuffer{cmd}, h.fence, h.value); err != nil {
		return fmt.Errorf("submit copy: %w", err)
	}
	if err := h.wait(h.value, syncTimeout); err != nil {
		return err
	}
	return h.read(h.syncBuf, dst)
}

func (h *HAL) read(buf hal.Buffer, dst []byte) error {
	if len(dst) != readback.FrameSize(h.width, h.height) {
		return fmt.Errorf("%w: destination is %d bytes, want %d",
			ErrSizeMismatch, len(dst), readback.FrameSize(h.width, h.height))
	}
	if err := h.queue.ReadBuffer(buf, 0, h.scratch); err != nil {
		return fmt.Errorf("read staging buffer: %w", err)
	}
	if err := StripPadding(dst, h.scratch, h.width, h.height); err != nil {
		return err
	}
	if h.format == gputypes.TextureFormatBGRA8Unorm {
		SwizzleBGRA(dst)
	}
	return nil
}

// Release waits for outstanding copies and destroys the staging buffers
// and fence. Safe to call multiple times.
func (h *HAL) Release() error {
	var errs error
	for i := range h.buffers {
		st := &h.buffers[i]
		errs = multierr.Append(errs, h.retire(st))
		if st.buf != nil {
			h.device.DestroyBuffer(st.buf)
		}
		*st = staging{}
	}
	if h.syncBuf != nil {
		h.device.DestroyBuffer(h.syncBuf)
		h.syncBuf = nil
	}
	if h.fence != nil {
		h.device.DestroyFence(h.fence)
		h.fence = nil
	}
	h.scratch = nil
	h.value = 0
	return errs
}

// Submitted returns the fence value of the last submitted copy.
func (h *HAL) Submitted() uint64 {
	return h.value
}

var _ readback.Transfer = (*HAL)(nil)
