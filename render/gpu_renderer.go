// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"go.uber.org/multierr"
)

// ColorFormat is the pixel format of the GPU renderer's color target:
// 4 channels, 8-bit unsigned normalized, the layout transfers read back.
const ColorFormat = gputypes.TextureFormatRGBA8Unorm

// gpuTimeout bounds the wait for a command buffer before it is recycled.
const gpuTimeout = 5 * time.Second

// inflight is a submitted command buffer and the fence value that signals
// its completion.
type inflight struct {
	cmd   hal.CommandBuffer
	value uint64
}

// GPURenderer draws the full-screen gradient quad with a wgpu HAL render
// pipeline into an offscreen RGBA8 texture.
//
// The texture is created with CopySrc usage so a transfer can copy it into
// staging buffers after each Draw. Draw submits without waiting; command
// buffers are recycled through a two-slot ring once their fence value has
// been reached, which in steady state has happened a full frame earlier.
//
// Architecture:
//
//	GPURenderer
//	  +-- color texture (RGBA8Unorm, RenderAttachment | CopySrc) + view
//	  +-- vertex buffer (6 x vec3<f32>) + resolution uniform (16 bytes)
//	  +-- shader (WGSL -> SPIR-V via naga), layouts, pipeline
//	  +-- fence + two in-flight command buffer slots
type GPURenderer struct {
	device hal.Device
	queue  hal.Queue
	width  int
	height int

	colorTex  hal.Texture
	colorView hal.TextureView

	vertBuf    hal.Buffer
	uniformBuf hal.Buffer

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline
	bindGroup     hal.BindGroup

	fence      hal.Fence
	fenceValue uint64
	slots      [2]inflight
	frames     uint64
}

// NewGPURenderer creates the color target, geometry and pipeline for a
// width x height frame on the given device.
//
// Shader compilation and GPU object creation failures are returned wrapped;
// everything created before the failure is released.
func NewGPURenderer(device hal.Device, queue hal.Queue, width, height int) (*GPURenderer, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if !validSize(width, height) {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	r := &GPURenderer{
		device: device,
		queue:  queue,
		width:  width,
		height: height,
	}
	if err := r.init(); err != nil {
		_ = r.Destroy()
		return nil, err
	}
	return r, nil
}

func (r *GPURenderer) init() error {
	if err := r.createTarget(); err != nil {
		return err
	}
	if err := r.createBuffers(); err != nil {
		return err
	}
	if err := r.createPipeline(); err != nil {
		return err
	}
	fence, err := r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	r.fence = fence
	return nil
}

// createTarget creates the single-sample color texture and its view.
func (r *GPURenderer) createTarget() error {
	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "gradient_color",
		Size:          hal.Extent3D{Width: uint32(r.width), Height: uint32(r.height), DepthOrArrayLayers: 1}, //nolint:gosec // validated positive
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        ColorFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create color texture: %w", err)
	}
	r.colorTex = tex

	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "gradient_color_view",
	})
	if err != nil {
		return fmt.Errorf("create color view: %w", err)
	}
	r.colorView = view
	return nil
}

// createBuffers uploads the quad vertices and allocates the uniform block.
func (r *GPURenderer) createBuffers() error {
	vertexData := quadVertexBytes()
	vertBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "gradient_quad_verts",
		Size:  uint64(len(vertexData)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create vertex buffer: %w", err)
	}
	r.vertBuf = vertBuf
	r.queue.WriteBuffer(vertBuf, 0, vertexData)

	uniformBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "gradient_uniform",
		Size:  resolutionUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	r.uniformBuf = uniformBuf
	return nil
}

// createPipeline compiles the gradient shader and creates the layouts,
// render pipeline and bind group.
func (r *GPURenderer) createPipeline() error {
	shader, err := createGradientShader(r.device)
	if err != nil {
		return fmt.Errorf("gradient shader: %w", err)
	}
	r.shader = shader

	uniformLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "gradient_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform layout: %w", err)
	}
	r.uniformLayout = uniformLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "gradient_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "gradient_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.shader,
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     r.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    ColorFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	r.pipeline = pipeline

	bindGroup, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "gradient_bind",
		Layout: r.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: r.uniformBuf.NativeHandle(), Offset: 0, Size: resolutionUniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	r.bindGroup = bindGroup
	return nil
}

// quadVertexLayout returns the vertex buffer layout: one vec3<f32> position
// at location 0.
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0}, // position
			},
		},
	}
}

// Draw clears the color target and draws the quad. The command buffer is
// submitted with a fence signal; Draw does not wait for the GPU.
func (r *GPURenderer) Draw() error {
	slot := &r.slots[r.frames%uint64(len(r.slots))]
	if err := r.recycle(slot); err != nil {
		return err
	}

	// The resolution uniform is rewritten every frame.
	r.queue.WriteBuffer(r.uniformBuf, 0, makeResolutionUniform(r.width, r.height))

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "gradient_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("gradient_frame"); err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "gradient_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       r.colorView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0.5, G: 0.5, B: 0.5, A: 1},
		}},
	})
	rp.SetPipeline(r.pipeline)
	rp.SetBindGroup(0, r.bindGroup, nil)
	rp.SetVertexBuffer(0, r.vertBuf, 0)
	rp.Draw(quadVertexCount, 1, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("end encoding: %w", err)
	}

	r.fenceValue++
	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, r.fence, r.fenceValue); err != nil {
		r.device.FreeCommandBuffer(cmdBuf)
		return fmt.Errorf("submit: %w", err)
	}
	slot.cmd = cmdBuf
	slot.value = r.fenceValue
	r.frames++
	return nil
}

// recycle frees the command buffer held by slot once the GPU is done with it.
func (r *GPURenderer) recycle(slot *inflight) error {
	if slot.cmd == nil {
		return nil
	}
	ok, err := r.device.Wait(r.fence, slot.value, gpuTimeout)
	if err != nil {
		return fmt.Errorf("wait for frame %d: %w", slot.value, err)
	}
	if !ok {
		return fmt.Errorf("%w: frame %d after %v", ErrTimeout, slot.value, gpuTimeout)
	}
	r.device.FreeCommandBuffer(slot.cmd)
	slot.cmd = nil
	return nil
}

// Texture returns the color target, the source of GPU transfers.
func (r *GPURenderer) Texture() hal.Texture {
	return r.colorTex
}

// Width returns the framebuffer width in pixels.
func (r *GPURenderer) Width() int {
	return r.width
}

// Height returns the framebuffer height in pixels.
func (r *GPURenderer) Height() int {
	return r.height
}

// Frames returns the number of frames submitted so far.
func (r *GPURenderer) Frames() uint64 {
	return r.frames
}

// Destroy waits for in-flight frames and releases all GPU resources in
// reverse creation order. Safe to call multiple times.
func (r *GPURenderer) Destroy() error {
	if r.device == nil {
		return nil
	}
	var errs error
	for i := range r.slots {
		errs = multierr.Append(errs, r.recycle(&r.slots[i]))
	}
	if r.fence != nil {
		r.device.DestroyFence(r.fence)
		r.fence = nil
	}
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	if r.pipeline != nil {
		r.device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.uniformLayout != nil {
		r.device.DestroyBindGroupLayout(r.uniformLayout)
		r.uniformLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
	if r.uniformBuf != nil {
		r.device.DestroyBuffer(r.uniformBuf)
		r.uniformBuf = nil
	}
	if r.vertBuf != nil {
		r.device.DestroyBuffer(r.vertBuf)
		r.vertBuf = nil
	}
	if r.colorView != nil {
		r.device.DestroyTextureView(r.colorView)
		r.colorView = nil
	}
	if r.colorTex != nil {
		r.device.DestroyTexture(r.colorTex)
		r.colorTex = nil
	}
	return errs
}

var _ Renderer = (*GPURenderer)(nil)
