//go:build windows

package webgpu

import (
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
)

// Size class thresholds and pool capacity.
const (
	smallThreshold  = 4 * 1024    // 4KB
	mediumThreshold = 1024 * 1024 // 1MB
	maxPooled       = 100         // max buffers retained per class
)

// sizeClass indexes the pool's free lists.
type sizeClass int

const (
	smallClass sizeClass = iota
	mediumClass
	largeClass
	numClasses
)

func classify(size uint64) sizeClass {
	switch {
	case size < smallThreshold:
		return smallClass
	case size < mediumThreshold:
		return mediumClass
	default:
		return largeClass
	}
}

// pooledBuffer wraps a GPU buffer with the metadata needed for reuse.
type pooledBuffer struct {
	buffer *wgpu.Buffer
	size   uint64
	usage  wgpu.BufferUsage
}

// BufferPool reuses GPU buffers to reduce allocation overhead. Free buffers
// are kept in per-size-class lists; a request is served by the first free
// buffer whose size and usage cover it.
type BufferPool struct {
	device *wgpu.Device

	mu   sync.Mutex
	free [numClasses][]*pooledBuffer

	hits   uint64
	misses uint64
}

// NewBufferPool creates a buffer pool for the given device.
func NewBufferPool(device *wgpu.Device) *BufferPool {
	return &BufferPool{device: device}
}

// Acquire returns a free buffer covering size and usage, or creates one.
func (p *BufferPool) Acquire(size uint64, usage wgpu.BufferUsage) *wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()

	class := classify(size)
	for i, pb := range p.free[class] {
		if pb.size >= size && pb.usage&usage == usage {
			p.free[class] = append(p.free[class][:i], p.free[class][i+1:]...)
			p.hits++
			return pb.buffer
		}
	}

	p.misses++
	return p.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: usage,
		Size:  size,
	})
}

// Release puts a buffer back for reuse, or frees it when the class is full.
func (p *BufferPool) Release(buffer *wgpu.Buffer, size uint64, usage wgpu.BufferUsage) {
	p.mu.Lock()
	defer p.mu.Unlock()

	class := classify(size)
	if len(p.free[class]) >= maxPooled {
		buffer.Release()
		return
	}
	p.free[class] = append(p.free[class], &pooledBuffer{buffer: buffer, size: size, usage: usage})
}

// Clear frees every pooled buffer. Called when the device is released.
func (p *BufferPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for class := range p.free {
		for _, pb := range p.free[class] {
			pb.buffer.Release()
		}
		p.free[class] = p.free[class][:0]
	}
}

// Stats returns pool hit/miss counters and the number of pooled buffers.
func (p *BufferPool) Stats() (hits, misses uint64, pooled int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for class := range p.free {
		pooled += len(p.free[class])
	}
	return p.hits, p.misses, pooled
}
