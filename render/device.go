// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrNoHALAccess is returned when a device handle does not expose HAL types.
var ErrNoHALAccess = errors.New("render: device handle does not expose hal.Device and hal.Queue")

// DeviceHandle provides GPU device access from the host application.
//
// The host (e.g., gogpu.App) implements DeviceHandle and passes it to the
// renderer, so frames are drawn on the device the host already owns.
// DeviceHandle is an alias for gpucontext.DeviceProvider.
type DeviceHandle = gpucontext.DeviceProvider

// halProvider is implemented by device handles that expose the wgpu HAL
// objects behind their gpucontext interfaces.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// HALDevice extracts the hal.Device and hal.Queue behind a device handle.
// The handle must implement HalDevice() any and HalQueue() any.
func HALDevice(handle DeviceHandle) (hal.Device, hal.Queue, error) {
	hp, ok := handle.(halProvider)
	if !ok {
		return nil, nil, ErrNoHALAccess
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, ErrNoHALAccess
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, ErrNoHALAccess
	}
	return device, queue, nil
}

// NewGPURendererFromHandle creates a GPURenderer on the host's device.
func NewGPURendererFromHandle(handle DeviceHandle, width, height int) (*GPURenderer, error) {
	device, queue, err := HALDevice(handle)
	if err != nil {
		return nil, err
	}
	return NewGPURenderer(device, queue, width, height)
}

// NullDeviceHandle is a DeviceHandle without a device, used where only the
// software path is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
