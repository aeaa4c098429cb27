// Package webgpu implements the GPU device backend on WebGPU.
// Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU bindings.
//
// GPU allocations are storage buffers. Uploads go through a staging buffer
// mapped at creation; readbacks go through a MapRead staging buffer, exposed
// to other backends as the sharedmem.HostReader capability.
package webgpu

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// ErrNotSupported is returned on platforms where the wgpu_native library is
// not available.
var ErrNotSupported = errors.New("webgpu: not supported on this platform")

// MemoryStats reports the backend's buffer accounting.
type MemoryStats struct {
	AllocatedBytes uint64 // bytes currently held by live memories
	PeakBytes      uint64 // high-water mark of AllocatedBytes
	ActiveBuffers  int64  // live memories not yet released
}

// String formats the stats with human-readable byte sizes.
func (s MemoryStats) String() string {
	return fmt.Sprintf("%s allocated (%s peak, %d active buffers)",
		humanize.IBytes(s.AllocatedBytes), humanize.IBytes(s.PeakBytes), s.ActiveBuffers)
}
