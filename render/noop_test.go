// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

var errInjected = errors.New("injected failure")

// scriptedDevice wraps a hal.Device to inject fence timeouts and encoding
// failures.
type scriptedDevice struct {
	hal.Device

	timeout   bool
	failBegin bool
	discards  int
}

func (d *scriptedDevice) Wait(fence hal.Fence, value uint64, timeout time.Duration) (bool, error) {
	if d.timeout {
		return false, nil
	}
	return d.Device.Wait(fence, value, timeout)
}

func (d *scriptedDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &scriptedEncoder{CommandEncoder: enc, dev: d}, nil
}

type scriptedEncoder struct {
	hal.CommandEncoder
	dev   *scriptedDevice
	began bool
}

func (e *scriptedEncoder) BeginEncoding(label string) error {
	if e.dev.failBegin {
		return errInjected
	}
	e.began = true
	return e.CommandEncoder.BeginEncoding(label)
}

func (e *scriptedEncoder) DiscardEncoding() {
	e.dev.discards++
	if e.began {
		e.CommandEncoder.DiscardEncoding()
	}
}
