// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for device-coherent shared
// memory.
//
// WebGPU is a cross-platform graphics and compute API. This backend
// allocates GPU storage buffers and services transfers from host memory
// (staging upload), from its own buffers (on-GPU copy), and from other
// accelerators (bounce through host memory).
//
// Example:
//
//	import (
//	    "github.com/born-ml/coherence/backend/cpu"
//	    "github.com/born-ml/coherence/backend/webgpu"
//	    "github.com/born-ml/coherence/sharedmem"
//	)
//
//	func main() {
//	    gpu, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer gpu.Release()
//
//	    buf, err := sharedmem.New[float32](cpu.New(), 1024)
//	    ...
//	    err = buf.AddDevice(gpu)
//	    err = buf.Sync(gpu)
//	}
package webgpu

import (
	internalwebgpu "github.com/born-ml/coherence/internal/backend/webgpu"
	"github.com/born-ml/coherence/sharedmem"
)

// Device is a GPU device instance backed by a WebGPU adapter.
type Device = internalwebgpu.Device

// MemoryStats reports the backend's buffer accounting.
type MemoryStats = internalwebgpu.MemoryStats

// ErrNotSupported is returned on platforms where the wgpu_native library is
// not available.
var ErrNotSupported = internalwebgpu.ErrNotSupported

// Compile-time check that Device implements sharedmem.Device.
var _ sharedmem.Device = (*Device)(nil)

// New initializes WebGPU and returns the GPU device.
//
// Returns an error if WebGPU initialization fails (e.g. no compatible GPU).
// Call Release() when done to free GPU resources.
func New() (*Device, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
//
// It is useful for graceful fallback to host-only tracking when no
// compatible GPU and drivers are present.
//
// Example:
//
//	if webgpu.IsAvailable() {
//	    gpu, _ := webgpu.New()
//	    _ = buf.AddDevice(gpu)
//	}
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
