package sharedmem

import "k8s.io/klog/v2"

// trackedCopy pairs a device handle with the copy allocated on it.
type trackedCopy struct {
	device Device
	mem    Memory
}

// SharedMemory tracks the copies of one logical buffer of T elements across
// devices. At most one copy exists per device, and exactly one device holds
// the latest copy: the only copy guaranteed to reflect the most recent write
// accepted through the tracker. Bytes move between devices only through
// Sync.
//
// The element type has no runtime representation beyond its byte size,
// computed once at construction.
//
// A SharedMemory is not safe for concurrent use. Callers that share one
// across goroutines must serialize access themselves.
type SharedMemory[T DType] struct {
	latestDevice Device
	latestCopy   Memory
	// copies holds every tracked device except latestDevice.
	copies   map[DeviceID]trackedCopy
	capacity int
	elemSize int
}

// New creates a SharedMemory by allocating capacity elements of T on dev.
// That allocation becomes the initial latest copy.
func New[T DType](dev Device, capacity int) (*SharedMemory[T], error) {
	elemSize := dataTypeOf[T]().Size()
	byteSize := capacity * elemSize
	mem, err := dev.Allocate(byteSize)
	if err != nil {
		return nil, &AllocError{Device: dev.ID(), ByteSize: byteSize, Cause: err}
	}
	klog.V(2).Infof("sharedmem: allocated %d bytes on %s", byteSize, dev.ID())
	return &SharedMemory[T]{
		latestDevice: dev,
		latestCopy:   mem,
		copies:       make(map[DeviceID]trackedCopy),
		capacity:     capacity,
		elemSize:     elemSize,
	}, nil
}

// AddDevice tracks a new device and allocates a copy of the fixed byte size
// on it. The new copy is not synchronized: it holds unspecified content
// until a Sync call populates it.
//
// Returns ErrAlreadyTracked if the device is already tracked. Registration
// is not idempotent, to catch logic errors early.
func (s *SharedMemory[T]) AddDevice(dev Device) error {
	// cheaper than the map probe
	if s.latestDevice.ID() == dev.ID() {
		return ErrAlreadyTracked
	}
	if _, ok := s.copies[dev.ID()]; ok {
		return ErrAlreadyTracked
	}
	mem, err := dev.Allocate(s.ByteSize())
	if err != nil {
		return &AllocError{Device: dev.ID(), ByteSize: s.ByteSize(), Cause: err}
	}
	klog.V(2).Infof("sharedmem: allocated %d bytes on %s", s.ByteSize(), dev.ID())
	s.copies[dev.ID()] = trackedCopy{device: dev, mem: mem}
	return nil
}

// Get returns the copy tracked for dev, or false if the device is not
// tracked. Absence is an expected, checkable condition, not an error.
//
// The returned copy must be treated as read-only and must not be used after
// the next mutating call on the tracker.
func (s *SharedMemory[T]) Get(dev Device) (Memory, bool) {
	// cheaper than the map probe
	if s.latestDevice.ID() == dev.ID() {
		return s.latestCopy, true
	}
	if tc, ok := s.copies[dev.ID()]; ok {
		return tc.mem, true
	}
	return nil, false
}

// GetMut returns the copy tracked for dev with write access, or false if
// the device is not tracked.
//
// Requesting write access makes dev the latest device without a transfer:
// the copy is handed out to be overwritten, so its previous content is
// unspecified unless dev was already the latest device. A mutation made
// through GetMut is therefore never discarded by a later Sync from a stale
// device.
//
// The returned copy must not be used after the next mutating call on the
// tracker.
func (s *SharedMemory[T]) GetMut(dev Device) (Memory, bool) {
	if s.latestDevice.ID() == dev.ID() {
		return s.latestCopy, true
	}
	tc, ok := s.copies[dev.ID()]
	if !ok {
		return nil, false
	}
	delete(s.copies, dev.ID())
	s.copies[s.latestDevice.ID()] = trackedCopy{device: s.latestDevice, mem: s.latestCopy}
	s.latestDevice, s.latestCopy = tc.device, tc.mem
	return tc.mem, true
}

// Sync makes dst's copy byte-for-byte equal to the current latest copy,
// then makes dst the latest device. A no-op if dst already is the latest
// device; the backend is never touched in that case.
//
// The destination must already be tracked: Sync never allocates. Returns
// ErrMissingDestination otherwise.
func (s *SharedMemory[T]) Sync(dst Device) error {
	if s.latestDevice.ID() == dst.ID() {
		return nil
	}
	src, srcCopy, dstDev, dstCopy, err := s.acquireCopies(dst)
	if err != nil {
		return err
	}
	if dstCopy.Kind() != dstDev.ID().Kind {
		s.returnCopies(srcCopy, dstDev, dstCopy)
		return ErrInvalidMemory
	}
	if err := dstDev.TransferIn(src, srcCopy, dstCopy); err != nil {
		s.returnCopies(srcCopy, dstDev, dstCopy)
		return &TransferError{Source: src.ID(), Destination: dstDev.ID(), Cause: err}
	}
	klog.V(2).Infof("sharedmem: synchronized %d bytes %s -> %s", s.ByteSize(), src.ID(), dstDev.ID())
	// Demote the old latest copy into the tracked set, promote the
	// destination into the cache slot.
	s.copies[src.ID()] = trackedCopy{device: src, mem: srcCopy}
	s.latestDevice, s.latestCopy = dstDev, dstCopy
	return nil
}

// acquireCopies takes exclusive ownership of the latest copy and the
// destination copy out of their storage slots, so the transfer can hold an
// immutable view of the source and a mutable view of the destination at the
// same time. Every successful acquire is matched by either returnCopies (on
// failure) or the demote/promote step in Sync (on success); the tracker
// never leaks a copy.
//
// The source always lives in the cache slot, never in the copies map, so it
// is taken from there directly.
func (s *SharedMemory[T]) acquireCopies(dst Device) (src Device, srcCopy Memory, dstDev Device, dstCopy Memory, err error) {
	if s.latestCopy == nil {
		return nil, nil, nil, nil, ErrMissingSource
	}
	tc, ok := s.copies[dst.ID()]
	if !ok {
		return nil, nil, nil, nil, ErrMissingDestination
	}
	delete(s.copies, dst.ID())
	src, srcCopy = s.latestDevice, s.latestCopy
	s.latestCopy = nil
	return src, srcCopy, tc.device, tc.mem, nil
}

// returnCopies restores ownership of both copies after a failed transfer.
func (s *SharedMemory[T]) returnCopies(srcCopy Memory, dstDev Device, dstCopy Memory) {
	s.latestCopy = srcCopy
	s.copies[dstDev.ID()] = trackedCopy{device: dstDev, mem: dstCopy}
}

// LatestDevice returns the device holding the up-to-date copy.
func (s *SharedMemory[T]) LatestDevice() Device {
	return s.latestDevice
}

// Capacity returns the number of elements the SharedMemory was allocated
// for. Fixed at construction.
func (s *SharedMemory[T]) Capacity() int {
	return s.capacity
}

// ByteSize returns the byte size every tracked copy was allocated with.
func (s *SharedMemory[T]) ByteSize() int {
	return s.capacity * s.elemSize
}

// Devices returns the identities of all tracked devices, latest first.
// The order of the remaining devices is unspecified.
func (s *SharedMemory[T]) Devices() []DeviceID {
	ids := make([]DeviceID, 0, len(s.copies)+1)
	ids = append(ids, s.latestDevice.ID())
	for id := range s.copies {
		ids = append(ids, id)
	}
	return ids
}
