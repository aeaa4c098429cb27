//go:build windows

package webgpu

import (
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"

	"github.com/born-ml/coherence/internal/sharedmem"
)

// Verify that GPU memory supports host readback.
var _ sharedmem.HostReader = (*Memory)(nil)

// Memory is a GPU buffer allocation tagged to the WebGPU backend.
type Memory struct {
	dev    *Device
	buffer *wgpu.Buffer
	size   int
}

// Kind returns the backend tag.
func (m *Memory) Kind() sharedmem.Kind { return sharedmem.WebGPU }

// ByteSize returns the allocation size in bytes.
func (m *Memory) ByteSize() int { return m.size }

// ReadInto copies the buffer contents back to host memory through a
// staging buffer. Blocks until the copy completes.
func (m *Memory) ReadInto(dst []byte) error {
	if len(dst) != m.size {
		return errors.Errorf("webgpu: destination has %d bytes, buffer has %d", len(dst), m.size)
	}
	if m.size == 0 {
		return nil
	}
	size := uint64(m.size)

	// Create staging buffer for reading (MAP_READ | COPY_DST)
	staging := m.dev.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer staging.Release()

	// Copy from GPU buffer to staging buffer
	encoder := m.dev.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(m.buffer, 0, staging, 0, size)
	m.dev.queue.Submit(encoder.Finish(nil))

	// Map staging buffer for reading
	if err := staging.MapAsync(m.dev.device, wgpu.MapModeRead, 0, size); err != nil {
		return errors.Wrap(err, "webgpu: failed to map staging buffer")
	}

	mappedPtr := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(dst, mappedSlice)

	staging.Unmap()
	return nil
}

// Release returns the underlying buffer to the device pool. The memory must
// not be used afterwards. Releasing a memory still tracked by a
// SharedMemory invalidates that copy.
func (m *Memory) Release() {
	if m.buffer != nil {
		m.dev.pool.Release(m.buffer, uint64(m.size), bufferUsage)
		m.buffer = nil
	}

	m.dev.statsMu.Lock()
	m.dev.stats.AllocatedBytes -= uint64(m.size)
	m.dev.stats.ActiveBuffers--
	m.dev.statsMu.Unlock()
}
