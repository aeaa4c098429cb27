package sharedmem

import "github.com/pkg/errors"

// Verify that the mock types satisfy the contracts.
var (
	_ Device   = (*MockDevice)(nil)
	_ HostData = (*MockMemory)(nil)
)

// MockDevice is a simple in-memory device for testing. It counts backend
// calls and can be made to fail on demand.
type MockDevice struct {
	id DeviceID

	// AllocCalls and TransferCalls count the backend invocations.
	AllocCalls    int
	TransferCalls int

	// FailAlloc, when non-nil, is returned by every Allocate call.
	FailAlloc error
	// FailTransfer, when non-nil, is returned by every TransferIn call.
	FailTransfer error

	// AllocKind tags the memories this device allocates. Defaults to the
	// device's own kind; override to provoke representation mismatches.
	AllocKind Kind
}

// NewMockDevice creates a CPU-kind mock device with the given ordinal.
func NewMockDevice(ordinal int) *MockDevice {
	return &MockDevice{
		id:        DeviceID{Kind: CPU, Ordinal: ordinal},
		AllocKind: CPU,
	}
}

// NewMockDeviceKind creates a mock device of an arbitrary kind.
func NewMockDeviceKind(kind Kind, ordinal int) *MockDevice {
	return &MockDevice{
		id:        DeviceID{Kind: kind, Ordinal: ordinal},
		AllocKind: kind,
	}
}

// ID returns the device identity.
func (d *MockDevice) ID() DeviceID { return d.id }

// Name returns the device name.
func (d *MockDevice) Name() string { return "mock " + d.id.String() }

// Allocate reserves byteSize bytes in host memory.
func (d *MockDevice) Allocate(byteSize int) (Memory, error) {
	d.AllocCalls++
	if d.FailAlloc != nil {
		return nil, d.FailAlloc
	}
	return &MockMemory{kind: d.AllocKind, data: make([]byte, byteSize)}, nil
}

// TransferIn copies host-visible source bytes into the destination copy.
func (d *MockDevice) TransferIn(src Device, from Memory, into Memory) error {
	d.TransferCalls++
	if d.FailTransfer != nil {
		return d.FailTransfer
	}
	dst, ok := into.(*MockMemory)
	if !ok {
		return errors.WithMessage(ErrInvalidMemory, "mock: expected mock memory as destination")
	}
	hd, ok := from.(HostData)
	if !ok {
		return errors.Errorf("mock: cannot transfer from %s memory on %s", from.Kind(), src.ID())
	}
	copy(dst.data, hd.Bytes())
	return nil
}

// MockMemory is a host-byte-backed Memory used by MockDevice.
type MockMemory struct {
	kind Kind
	data []byte
}

// NewMockMemory creates a standalone mock allocation, mostly useful to feed
// a foreign memory representation into a backend under test.
func NewMockMemory(kind Kind, byteSize int) *MockMemory {
	return &MockMemory{kind: kind, data: make([]byte, byteSize)}
}

// Kind returns the backend tag the memory was allocated with.
func (m *MockMemory) Kind() Kind { return m.kind }

// ByteSize returns the allocation size in bytes.
func (m *MockMemory) ByteSize() int { return len(m.data) }

// Bytes returns the allocation's bytes. Zero-copy.
func (m *MockMemory) Bytes() []byte { return m.data }
