// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package transfer implements readback.Transfer.
//
// HAL copies a wgpu HAL texture into two MapRead staging buffers with
// CopyTextureToBuffer and reads them back with Queue.ReadBuffer. Copies are
// submitted without waiting; by the time a buffer is fetched its copy was
// issued one tick earlier. WithFenceTimeout adds an explicit wait on the
// buffer's fence value before each fetch.
//
// Memory implements the same contract over any render.Framebuffer, which
// makes the software renderer a complete stand-in for a GPU.
//
// Staging rows are padded to CopyPitchAlignment bytes as WebGPU requires;
// snapshots are always tightly packed RGBA8.
package transfer
