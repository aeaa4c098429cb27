// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the host backend for device-coherent shared memory.
//
// Host allocations live in ordinary Go memory and expose zero-copy typed
// views (Float32s, Int64s, ...), so host copies can be filled and inspected
// directly.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/coherence/backend/cpu"
//	    "github.com/born-ml/coherence/sharedmem"
//	)
//
//	func main() {
//	    host := cpu.New()
//	    buf, err := sharedmem.New[float32](host, 1024)
//	    ...
//	}
package cpu

import (
	internalcpu "github.com/born-ml/coherence/internal/backend/cpu"
	"github.com/born-ml/coherence/sharedmem"
)

// Device is a host device instance.
type Device = internalcpu.Device

// Memory is a host allocation with zero-copy typed views.
type Memory = internalcpu.Memory

// Compile-time check that Device implements sharedmem.Device.
var _ sharedmem.Device = (*Device)(nil)

// New creates the default host device (ordinal 0).
func New() *Device {
	return internalcpu.New()
}

// NewDevice creates a host device with the given ordinal. Distinct ordinals
// are distinct devices to the tracker, each with its own copy.
func NewDevice(ordinal int) *Device {
	return internalcpu.NewDevice(ordinal)
}
