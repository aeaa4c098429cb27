// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package sharedmem provides the public API for device-coherent shared
// memory: one logical buffer with physical copies on several compute
// devices, of which exactly one is authoritative at any time.
//
// A SharedMemory tracks the memory copies across devices and manages
//
//   - the location of these memory copies,
//   - the location of the latest (authoritative) copy, and
//   - the synchronization of memory copies between devices.
//
// Bytes move between devices only through Sync, and only when the caller
// asks: copies are propagated lazily, never behind the caller's back.
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
//	    buf, err := sharedmem.New[float32](host, 5)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Fill the host copy with some numbers.
//	    mem, _ := buf.GetMut(host)
//	    copy(mem.(*cpu.Memory).Float32s(), []float32{0, 1, 2, 3, 4})
//	}
//
// # Moving data to a GPU
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//
//	if err := buf.AddDevice(gpu); err != nil {
//	    log.Fatal(err)
//	}
//	if err := buf.Sync(gpu); err != nil {
//	    log.Fatal(err)
//	}
//	// buf.LatestDevice() now reports the GPU.
//
// # Thread Safety
//
// A SharedMemory instance is not safe for concurrent use; callers that
// share one across goroutines must serialize access.
package sharedmem
