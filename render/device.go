// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DeviceHandle provides GPU device access from the host application.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider so any gogpu host
// can hand its device to the text renderer without an adapter type.
type DeviceHandle = gpucontext.DeviceProvider

// Device integration errors.
var (
	// ErrNoHAL is returned when a provider does not expose HAL types.
	ErrNoHAL = errors.New("render: provider does not expose HAL types")

	// ErrNilDevice is returned when a provider exposes a nil device or queue.
	ErrNilDevice = errors.New("render: provider HAL device or queue is nil")
)

// halProvider is implemented by hosts that expose their hal objects.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// HAL extracts the hal.Device and hal.Queue behind provider.
func HAL(provider DeviceHandle) (hal.Device, hal.Queue, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, ErrNoHAL
	}
	d, q := hp.HalDevice(), hp.HalQueue()
	if d == nil || q == nil {
		return nil, nil, ErrNilDevice
	}
	device, ok := d.(hal.Device)
	if !ok {
		return nil, nil, ErrNoHAL
	}
	queue, ok := q.(hal.Queue)
	if !ok {
		return nil, nil, ErrNoHAL
	}
	return device, queue, nil
}

// SurfaceFormat returns the provider's surface format, or BGRA8Unorm when
// the provider has none.
func SurfaceFormat(provider DeviceHandle) gputypes.TextureFormat {
	if provider == nil {
		return gputypes.TextureFormatBGRA8Unorm
	}
	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		return f
	}
	return gputypes.TextureFormatBGRA8Unorm
}

// NullDeviceHandle is a DeviceHandle without a device. It is useful for
// CPU-only tooling that builds atlases without drawing.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo returns zero adapter info for the null device.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{} }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
