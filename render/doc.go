// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render draws the readback test pattern: one full-screen quad per
// frame whose fragment stage writes a resolution-normalized gradient.
//
// Pixel (x, y) of a W x H frame reads (x/W, y/H, 0, 1) scaled to 8-bit
// channels. The pattern is deterministic and does not change between frames,
// which makes it a recognizable signal for verifying readback correctness.
//
// # Key Principle
//
// The renderer RECEIVES a GPU device from the host application, it does NOT
// create windows or surfaces. Headless devices for tools and tests are opened
// by the caller.
//
// # Renderer Implementations
//
//   - GPURenderer: wgpu HAL render pipeline drawing into an offscreen
//     RGBA8 texture, the source of GPU transfers
//   - Software: CPU rasterization of the same pattern into a Framebuffer
//
// # Reference
//
// [Gradient] computes the expected value of a single pixel in float32, the
// way the fragment shader does, so readback results can be checked without
// a GPU.
package render
