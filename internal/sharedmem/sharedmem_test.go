package sharedmem

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

// putFloat32s writes vals into a host-visible copy.
func putFloat32s(t *testing.T, mem Memory, vals []float32) {
	t.Helper()
	hd, ok := mem.(HostData)
	require.True(t, ok, "mock memory should be host visible")
	data := hd.Bytes()
	require.Len(t, data, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
}

// getFloat32s reads a host-visible copy back as float32s.
func getFloat32s(t *testing.T, mem Memory) []float32 {
	t.Helper()
	hd, ok := mem.(HostData)
	require.True(t, ok, "mock memory should be host visible")
	data := hd.Bytes()
	vals := make([]float32, len(data)/4)
	for i := range vals {
		vals[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vals
}

func TestNewAllocatesLatestCopy(t *testing.T) {
	dev := NewMockDevice(0)

	buf, err := New[float32](dev, 5)
	require.NoError(t, err)

	assert.Equal(t, 5, buf.Capacity())
	assert.Equal(t, 20, buf.ByteSize())
	assert.Equal(t, dev.ID(), buf.LatestDevice().ID())
	assert.Equal(t, 1, dev.AllocCalls)

	mem, ok := buf.Get(dev)
	require.True(t, ok)
	assert.Equal(t, 20, mem.ByteSize())
}

func checkCopySizes[T DType](t *testing.T, elemSize int) {
	t.Helper()
	for _, capacity := range []int{0, 1, 5, 128} {
		a := NewMockDevice(0)
		b := NewMockDevice(1)

		buf, err := New[T](a, capacity)
		require.NoError(t, err)
		require.NoError(t, buf.AddDevice(b))

		want := capacity * elemSize
		assert.Equal(t, want, buf.ByteSize())
		for _, dev := range []*MockDevice{a, b} {
			mem, ok := buf.Get(dev)
			require.True(t, ok)
			assert.Equal(t, want, mem.ByteSize(), "capacity %d on %s", capacity, dev.ID())
		}
	}
}

func TestTrackedCopySizes(t *testing.T) {
	checkCopySizes[float32](t, 4)
	checkCopySizes[float64](t, 8)
	checkCopySizes[int32](t, 4)
	checkCopySizes[int64](t, 8)
	checkCopySizes[uint8](t, 1)
	checkCopySizes[bool](t, 1)
	checkCopySizes[float16.Float16](t, 2)
}

func TestNewAllocationFailure(t *testing.T) {
	cause := errors.New("out of memory")
	dev := NewMockDevice(0)
	dev.FailAlloc = cause

	_, err := New[float32](dev, 5)
	require.Error(t, err)

	var allocErr *AllocError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, dev.ID(), allocErr.Device)
	assert.Equal(t, 20, allocErr.ByteSize)
	assert.ErrorIs(t, err, cause)
}

func TestAddDeviceNotIdempotent(t *testing.T) {
	a := NewMockDevice(0)
	b := NewMockDevice(1)

	buf, err := New[float32](a, 5)
	require.NoError(t, err)

	require.NoError(t, buf.AddDevice(b))
	assert.ErrorIs(t, buf.AddDevice(b), ErrAlreadyTracked)

	// The latest device counts as tracked too.
	assert.ErrorIs(t, buf.AddDevice(a), ErrAlreadyTracked)

	// The failed registrations must not have allocated.
	assert.Equal(t, 1, b.AllocCalls)
	assert.Equal(t, 1, a.AllocCalls)
}

func TestAddDeviceAllocationFailure(t *testing.T) {
	cause := errors.New("out of memory")
	a := NewMockDevice(0)
	b := NewMockDevice(1)
	b.FailAlloc = cause

	buf, err := New[float32](a, 5)
	require.NoError(t, err)

	err = buf.AddDevice(b)
	var allocErr *AllocError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, b.ID(), allocErr.Device)
	assert.ErrorIs(t, err, cause)

	// The failed device is not tracked.
	_, ok := buf.Get(b)
	assert.False(t, ok)
}

func TestGetUntrackedDevice(t *testing.T) {
	a := NewMockDevice(0)
	b := NewMockDevice(1)

	buf, err := New[float32](a, 5)
	require.NoError(t, err)

	_, ok := buf.Get(b)
	assert.False(t, ok)
	_, ok = buf.GetMut(b)
	assert.False(t, ok)

	// Absence is not an error, and the tracker state is untouched.
	assert.Equal(t, a.ID(), buf.LatestDevice().ID())
}

func TestSyncOnLatestDeviceIsNoOp(t *testing.T) {
	a := NewMockDevice(0)

	buf, err := New[float32](a, 5)
	require.NoError(t, err)

	require.NoError(t, buf.Sync(a))
	require.NoError(t, buf.Sync(a))

	// The backend transfer contract is never invoked.
	assert.Equal(t, 0, a.TransferCalls)
	assert.Equal(t, a.ID(), buf.LatestDevice().ID())
}

func TestSyncMissingDestination(t *testing.T) {
	a := NewMockDevice(0)
	b := NewMockDevice(1)

	buf, err := New[float32](a, 5)
	require.NoError(t, err)

	assert.ErrorIs(t, buf.Sync(b), ErrMissingDestination)
	assert.Equal(t, a.ID(), buf.LatestDevice().ID())
}

func TestSyncPropagatesBytes(t *testing.T) {
	a := NewMockDevice(0)
	b := NewMockDevice(1)

	buf, err := New[float32](a, 5)
	require.NoError(t, err)
	require.NoError(t, buf.AddDevice(b))

	pattern := []float32{0, 1, 2, 3, 4}
	mem, ok := buf.GetMut(a)
	require.True(t, ok)
	putFloat32s(t, mem, pattern)

	require.NoError(t, buf.Sync(b))

	got, ok := buf.Get(b)
	require.True(t, ok)
	assert.Equal(t, pattern, getFloat32s(t, got))
	assert.Equal(t, b.ID(), buf.LatestDevice().ID())
	assert.Equal(t, 1, b.TransferCalls)
}

func TestSyncIdempotent(t *testing.T) {
	a := NewMockDevice(0)
	b := NewMockDevice(1)

	buf, err := New[float32](a, 5)
	require.NoError(t, err)
	require.NoError(t, buf.AddDevice(b))

	pattern := []float32{5, 4, 3, 2, 1}
	mem, _ := buf.GetMut(a)
	putFloat32s(t, mem, pattern)

	require.NoError(t, buf.Sync(b))
	require.NoError(t, buf.Sync(b))

	// The second call takes the no-op path: same latest device, no second
	// transfer, bytes unchanged.
	assert.Equal(t, 1, b.TransferCalls)
	assert.Equal(t, b.ID(), buf.LatestDevice().ID())
	got, _ := buf.Get(b)
	assert.Equal(t, pattern, getFloat32s(t, got))
}

func TestSyncTwoHopPropagation(t *testing.T) {
	a := NewMockDevice(0)
	b := NewMockDevice(1)
	c := NewMockDevice(2)

	buf, err := New[float32](a, 5)
	require.NoError(t, err)
	require.NoError(t, buf.AddDevice(b))
	require.NoError(t, buf.AddDevice(c))

	pattern := []float32{0, 1, 2, 3, 4}
	mem, _ := buf.GetMut(a)
	putFloat32s(t, mem, pattern)

	require.NoError(t, buf.Sync(b))
	require.NoError(t, buf.Sync(c))

	got, ok := buf.Get(c)
	require.True(t, ok)
	assert.Equal(t, pattern, getFloat32s(t, got))
	assert.Equal(t, c.ID(), buf.LatestDevice().ID())

	// A's demoted copy still exists, untouched.
	aMem, ok := buf.Get(a)
	require.True(t, ok)
	assert.Equal(t, pattern, getFloat32s(t, aMem))

	assert.ElementsMatch(t,
		[]DeviceID{a.ID(), b.ID(), c.ID()},
		buf.Devices())
}

func TestSyncTransferFailureRestoresOwnership(t *testing.T) {
	cause := errors.New("dma stall")
	a := NewMockDevice(0)
	b := NewMockDevice(1)
	b.FailTransfer = cause

	buf, err := New[float32](a, 5)
	require.NoError(t, err)
	require.NoError(t, buf.AddDevice(b))

	err = buf.Sync(b)
	var transferErr *TransferError
	require.ErrorAs(t, err, &transferErr)
	assert.Equal(t, a.ID(), transferErr.Source)
	assert.Equal(t, b.ID(), transferErr.Destination)
	assert.ErrorIs(t, err, cause)

	// The latest device is unchanged and both copies are still owned.
	assert.Equal(t, a.ID(), buf.LatestDevice().ID())
	_, ok := buf.Get(a)
	assert.True(t, ok)
	_, ok = buf.Get(b)
	assert.True(t, ok)

	// The same sync succeeds once the backend recovers.
	b.FailTransfer = nil
	require.NoError(t, buf.Sync(b))
	assert.Equal(t, b.ID(), buf.LatestDevice().ID())
}

func TestSyncMissingSourceGuard(t *testing.T) {
	a := NewMockDevice(0)
	b := NewMockDevice(1)

	buf, err := New[float32](a, 5)
	require.NoError(t, err)
	require.NoError(t, buf.AddDevice(b))

	// Simulate a corrupted cache slot; the guard must trip instead of
	// handing a nil copy to the backend.
	buf.latestCopy = nil
	assert.ErrorIs(t, buf.Sync(b), ErrMissingSource)
	assert.Equal(t, 0, b.TransferCalls)
}

func TestSyncInvalidMemoryRepresentation(t *testing.T) {
	a := NewMockDevice(0)
	b := NewMockDevice(1)
	b.AllocKind = WebGPU // lies about its allocations

	buf, err := New[float32](a, 5)
	require.NoError(t, err)
	require.NoError(t, buf.AddDevice(b))

	assert.ErrorIs(t, buf.Sync(b), ErrInvalidMemory)

	// The mismatch is detected before the backend is touched, and both
	// copies remain owned.
	assert.Equal(t, 0, b.TransferCalls)
	assert.Equal(t, a.ID(), buf.LatestDevice().ID())
	_, ok := buf.Get(b)
	assert.True(t, ok)
}

func TestGetMutPromotesWithoutTransfer(t *testing.T) {
	a := NewMockDevice(0)
	b := NewMockDevice(1)

	buf, err := New[float32](a, 5)
	require.NoError(t, err)
	require.NoError(t, buf.AddDevice(b))

	mem, ok := buf.GetMut(b)
	require.True(t, ok)

	// Write access promotes b without touching the backend.
	assert.Equal(t, b.ID(), buf.LatestDevice().ID())
	assert.Equal(t, 0, a.TransferCalls)
	assert.Equal(t, 0, b.TransferCalls)

	// A's copy stays tracked; a later sync overwrites it with b's bytes.
	pattern := []float32{9, 8, 7, 6, 5}
	putFloat32s(t, mem, pattern)
	require.NoError(t, buf.Sync(a))
	got, ok := buf.Get(a)
	require.True(t, ok)
	assert.Equal(t, pattern, getFloat32s(t, got))
}

func TestZeroCapacity(t *testing.T) {
	a := NewMockDevice(0)
	b := NewMockDevice(1)

	buf, err := New[float32](a, 0)
	require.NoError(t, err)
	require.NoError(t, buf.AddDevice(b))

	assert.Equal(t, 0, buf.Capacity())
	assert.Equal(t, 0, buf.ByteSize())
	require.NoError(t, buf.Sync(b))
	assert.Equal(t, b.ID(), buf.LatestDevice().ID())
}
