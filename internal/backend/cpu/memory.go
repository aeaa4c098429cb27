package cpu

import (
	"unsafe"

	"github.com/x448/float16"

	"github.com/born-ml/coherence/internal/sharedmem"
)

// Verify that host memory is host-visible.
var _ sharedmem.HostData = (*Memory)(nil)

// Memory is a host allocation of a fixed byte size.
//
// The typed views below reinterpret the raw bytes without copying. The
// tracker carries the element type; picking the matching view is the
// caller's responsibility.
type Memory struct {
	data []byte
}

// Kind returns the backend tag.
func (m *Memory) Kind() sharedmem.Kind { return sharedmem.CPU }

// ByteSize returns the allocation size in bytes.
func (m *Memory) ByteSize() int { return len(m.data) }

// Bytes returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (m *Memory) Bytes() []byte { return m.data }

// Float32s interprets the allocation as []float32. Zero-copy.
func (m *Memory) Float32s() []float32 {
	if len(m.data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length derived from the allocation
	return unsafe.Slice((*float32)(unsafe.Pointer(&m.data[0])), len(m.data)/4)
}

// Float64s interprets the allocation as []float64. Zero-copy.
func (m *Memory) Float64s() []float64 {
	if len(m.data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length derived from the allocation
	return unsafe.Slice((*float64)(unsafe.Pointer(&m.data[0])), len(m.data)/8)
}

// Float16s interprets the allocation as []float16.Float16. Zero-copy.
func (m *Memory) Float16s() []float16.Float16 {
	if len(m.data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length derived from the allocation
	return unsafe.Slice((*float16.Float16)(unsafe.Pointer(&m.data[0])), len(m.data)/2)
}

// Int32s interprets the allocation as []int32. Zero-copy.
func (m *Memory) Int32s() []int32 {
	if len(m.data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length derived from the allocation
	return unsafe.Slice((*int32)(unsafe.Pointer(&m.data[0])), len(m.data)/4)
}

// Int64s interprets the allocation as []int64. Zero-copy.
func (m *Memory) Int64s() []int64 {
	if len(m.data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length derived from the allocation
	return unsafe.Slice((*int64)(unsafe.Pointer(&m.data[0])), len(m.data)/8)
}

// Uint8s interprets the allocation as []uint8. Zero-copy.
func (m *Memory) Uint8s() []uint8 {
	return m.data // Already []byte = []uint8
}

// Bools interprets the allocation as []bool. Zero-copy.
func (m *Memory) Bools() []bool {
	if len(m.data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length derived from the allocation
	return unsafe.Slice((*bool)(unsafe.Pointer(&m.data[0])), len(m.data))
}
