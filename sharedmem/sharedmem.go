// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package sharedmem

import (
	"github.com/born-ml/coherence/internal/sharedmem"
)

// Type aliases for public API

// DType is a constraint for supported element types.
// Supported types: float32, float64, float16.Float16, int32, int64, uint8, bool.
type DType = sharedmem.DType

// DataType represents runtime type information for buffer elements.
type DataType = sharedmem.DataType

// Data type constants.
const (
	Float32 DataType = sharedmem.Float32
	Float64 DataType = sharedmem.Float64
	Float16 DataType = sharedmem.Float16
	Int32   DataType = sharedmem.Int32
	Int64   DataType = sharedmem.Int64
	Uint8   DataType = sharedmem.Uint8
	Bool    DataType = sharedmem.Bool
)

// Kind identifies a category of compute device.
type Kind = sharedmem.Kind

// Device kind constants.
const (
	CPU    Kind = sharedmem.CPU
	CUDA   Kind = sharedmem.CUDA
	Vulkan Kind = sharedmem.Vulkan
	Metal  Kind = sharedmem.Metal
	WebGPU Kind = sharedmem.WebGPU
)

// DeviceID identifies one device instance of one backend kind.
type DeviceID = sharedmem.DeviceID

// Device is the capability contract every backend implements.
//
// Implementations:
//   - backend/cpu: host memory, pure Go
//   - backend/webgpu: GPU buffers via WebGPU
type Device = sharedmem.Device

// Memory is an opaque, backend-tagged handle to a fixed-size raw
// allocation on one specific device.
type Memory = sharedmem.Memory

// HostData is implemented by memories whose bytes are directly visible to
// the host.
type HostData = sharedmem.HostData

// HostReader is implemented by memories that can read their contents back
// into host bytes.
type HostReader = sharedmem.HostReader

// SharedMemory tracks the copies of one logical buffer of T elements
// across devices and keeps exactly one copy authoritative.
type SharedMemory[T DType] = sharedmem.SharedMemory[T]

// Errors returned by SharedMemory operations.
var (
	ErrMissingSource      = sharedmem.ErrMissingSource
	ErrMissingDestination = sharedmem.ErrMissingDestination
	ErrInvalidMemory      = sharedmem.ErrInvalidMemory
	ErrAlreadyTracked     = sharedmem.ErrAlreadyTracked
)

// AllocError reports a failed backend allocation during New or AddDevice.
type AllocError = sharedmem.AllocError

// TransferError reports a failed backend transfer during Sync.
type TransferError = sharedmem.TransferError

// New creates a SharedMemory by allocating capacity elements of T on dev.
// That allocation becomes the initial latest copy.
//
// Example:
//
//	host := cpu.New()
//	buf, err := sharedmem.New[float32](host, 1024)
func New[T DType](dev Device, capacity int) (*SharedMemory[T], error) {
	return sharedmem.New[T](dev, capacity)
}
