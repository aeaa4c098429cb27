// Package cpu implements the host device backend.
//
// Host allocations live in ordinary Go memory, so cpu memories are
// host-visible (sharedmem.HostData) and every other backend can pull from
// them directly. The host pulls from accelerators through the
// sharedmem.HostReader capability.
package cpu

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/coherence/internal/sharedmem"
)

// Verify that the backend satisfies the device contract.
var _ sharedmem.Device = (*Device)(nil)

// Device is a host device instance.
type Device struct {
	id sharedmem.DeviceID
}

// New creates the default host device (ordinal 0).
func New() *Device {
	return NewDevice(0)
}

// NewDevice creates a host device with the given ordinal. Distinct ordinals
// are distinct devices to the tracker, each with its own copy.
func NewDevice(ordinal int) *Device {
	return &Device{id: sharedmem.DeviceID{Kind: sharedmem.CPU, Ordinal: ordinal}}
}

// ID returns the device identity.
func (d *Device) ID() sharedmem.DeviceID { return d.id }

// Name returns the device name.
func (d *Device) Name() string { return "CPU" }

// Allocate reserves byteSize bytes of zeroed host memory.
func (d *Device) Allocate(byteSize int) (sharedmem.Memory, error) {
	if byteSize < 0 {
		return nil, errors.Errorf("cpu: invalid allocation size %d", byteSize)
	}
	return &Memory{data: make([]byte, byteSize)}, nil
}

// TransferIn pulls the bytes of from (resident on src) into the host copy
// into. Host-visible sources are copied directly; accelerator sources are
// read back through their HostReader capability.
func (d *Device) TransferIn(src sharedmem.Device, from sharedmem.Memory, into sharedmem.Memory) error {
	dst, ok := into.(*Memory)
	if !ok {
		return errors.WithMessage(sharedmem.ErrInvalidMemory, "cpu: expected host memory as destination")
	}
	if from.ByteSize() != dst.ByteSize() {
		return errors.Errorf("cpu: size mismatch: source %d bytes, destination %d bytes", from.ByteSize(), dst.ByteSize())
	}
	switch mem := from.(type) {
	case sharedmem.HostData:
		copy(dst.data, mem.Bytes())
	case sharedmem.HostReader:
		if err := mem.ReadInto(dst.data); err != nil {
			return errors.Wrapf(err, "cpu: reading back from %s", src.ID())
		}
	default:
		return errors.Errorf("cpu: cannot transfer from %s memory", from.Kind())
	}
	klog.V(2).Infof("cpu: pulled %d bytes from %s", dst.ByteSize(), src.ID())
	return nil
}
