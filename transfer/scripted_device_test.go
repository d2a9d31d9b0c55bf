// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package transfer

import (
	"errors"
	"time"

	"github.com/gogpu/wgpu/hal"
)

var errInjected = errors.New("injected failure")

// waitCall records one hal.Device.Wait.
type waitCall struct {
	value   uint64
	timeout time.Duration
}

// scriptedDevice wraps a hal.Device to record fence waits and inject
// timeouts and encoding failures.
type scriptedDevice struct {
	hal.Device

	waits     []waitCall
	timeout   bool // Wait reports the fence value was not reached
	failBegin bool // BeginEncoding fails
	discards  int
}

func (d *scriptedDevice) Wait(fence hal.Fence, value uint64, timeout time.Duration) (bool, error) {
	d.waits = append(d.waits, waitCall{value: value, timeout: timeout})
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

// scriptedEncoder wraps a hal.CommandEncoder for scriptedDevice.
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
