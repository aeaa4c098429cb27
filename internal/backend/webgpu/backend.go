//go:build windows

package webgpu

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/coherence/internal/sharedmem"
)

// Verify that the backend satisfies the device contract.
var _ sharedmem.Device = (*Device)(nil)

// bufferUsage is the usage every device allocation is created with: usable
// as a compute storage buffer and as either end of a buffer-to-buffer copy.
const bufferUsage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst

// Device is a GPU device instance backed by a WebGPU adapter.
type Device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	id   sharedmem.DeviceID
	pool *BufferPool

	statsMu sync.Mutex
	stats   MemoryStats
}

// New initializes WebGPU and returns the GPU device.
// Returns an error if WebGPU is not available or initialization fails.
// Call Release when done to free GPU resources.
func New() (d *Device, err error) {
	// Recover from panic if the wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			d = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", adapterErr)
	}

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", deviceErr)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	d = &Device{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    queue,
		id:       sharedmem.DeviceID{Kind: sharedmem.WebGPU},
		pool:     NewBufferPool(device),
	}
	return d, nil
}

// IsAvailable checks if WebGPU is available on the current system.
func IsAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()
	return true
}

// Release frees all WebGPU resources. Memories allocated on this device
// must not be used afterwards.
func (d *Device) Release() {
	if d.pool != nil {
		d.pool.Clear()
		d.pool = nil
	}
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}

// ID returns the device identity.
func (d *Device) ID() sharedmem.DeviceID { return d.id }

// Name returns the device name.
func (d *Device) Name() string { return "WebGPU" }

// MemoryStats returns the current buffer accounting.
func (d *Device) MemoryStats() MemoryStats {
	d.statsMu.Lock()
	defer d.statsMu.Unlock()
	return d.stats
}

// Allocate reserves a GPU storage buffer of byteSize bytes. The buffer
// content is unspecified when it comes from the pool.
func (d *Device) Allocate(byteSize int) (sharedmem.Memory, error) {
	if byteSize < 0 {
		return nil, errors.Errorf("webgpu: invalid allocation size %d", byteSize)
	}
	var buffer *wgpu.Buffer
	if byteSize > 0 {
		buffer = d.pool.Acquire(uint64(byteSize), bufferUsage)
	}

	d.statsMu.Lock()
	d.stats.AllocatedBytes += uint64(byteSize)
	if d.stats.AllocatedBytes > d.stats.PeakBytes {
		d.stats.PeakBytes = d.stats.AllocatedBytes
	}
	d.stats.ActiveBuffers++
	d.statsMu.Unlock()

	klog.V(2).Infof("webgpu: allocated %d bytes", byteSize)
	return &Memory{dev: d, buffer: buffer, size: byteSize}, nil
}

// TransferIn pulls the bytes of from (resident on src) into the GPU copy
// into. Buffers of this device are copied on the GPU; host-visible sources
// are uploaded through a staging buffer; other accelerator sources bounce
// through host memory via their HostReader capability.
func (d *Device) TransferIn(src sharedmem.Device, from sharedmem.Memory, into sharedmem.Memory) error {
	dst, ok := into.(*Memory)
	if !ok || dst.dev != d {
		return errors.WithMessage(sharedmem.ErrInvalidMemory, "webgpu: expected this device's memory as destination")
	}
	if from.ByteSize() != dst.size {
		return errors.Errorf("webgpu: size mismatch: source %d bytes, destination %d bytes", from.ByteSize(), dst.size)
	}
	if dst.size == 0 {
		return nil
	}

	switch mem := from.(type) {
	case *Memory:
		if mem.dev == d {
			encoder := d.device.CreateCommandEncoder(nil)
			encoder.CopyBufferToBuffer(mem.buffer, 0, dst.buffer, 0, uint64(dst.size))
			d.queue.Submit(encoder.Finish(nil))
			break
		}
		// Different WebGPU device instance: bounce through host memory.
		staged := make([]byte, dst.size)
		if err := mem.ReadInto(staged); err != nil {
			return errors.Wrapf(err, "webgpu: reading back from %s", src.ID())
		}
		if err := d.writeBuffer(dst, staged); err != nil {
			return err
		}
	case sharedmem.HostData:
		if err := d.writeBuffer(dst, mem.Bytes()); err != nil {
			return err
		}
	case sharedmem.HostReader:
		staged := make([]byte, dst.size)
		if err := mem.ReadInto(staged); err != nil {
			return errors.Wrapf(err, "webgpu: reading back from %s", src.ID())
		}
		if err := d.writeBuffer(dst, staged); err != nil {
			return err
		}
	default:
		return errors.Errorf("webgpu: cannot transfer from %s memory", from.Kind())
	}

	klog.V(2).Infof("webgpu: pulled %d bytes from %s", dst.size, src.ID())
	return nil
}

// writeBuffer uploads host bytes into a GPU buffer through a staging buffer
// created with MappedAtCreation.
func (d *Device) writeBuffer(dst *Memory, data []byte) error {
	size := uint64(len(data))
	staging := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageCopySrc,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	defer staging.Release()

	mappedPtr := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	staging.Unmap()

	encoder := d.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(staging, 0, dst.buffer, 0, size)
	d.queue.Submit(encoder.Finish(nil))
	return nil
}
