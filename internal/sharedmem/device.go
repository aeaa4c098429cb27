package sharedmem

import "fmt"

// Kind identifies a category of compute device with its own allocation and
// transfer implementation.
type Kind int

// Supported device kinds.
const (
	CPU Kind = iota
	CUDA
	Vulkan
	Metal
	WebGPU
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	case Vulkan:
		return "Vulkan"
	case Metal:
		return "Metal"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// DeviceID identifies one device instance of one backend kind.
// It is comparable and used as a map key; ordering is irrelevant.
type DeviceID struct {
	Kind    Kind
	Ordinal int
}

// String returns the identity as "kind:ordinal", e.g. "CPU:0".
func (id DeviceID) String() string {
	return fmt.Sprintf("%s:%d", id.Kind, id.Ordinal)
}

// Device is the capability contract every backend implements.
//
// A Device owns raw allocation and transfer primitives for one device
// instance. New backend kinds can be added without changing SharedMemory.
//
// Implementations:
//   - backend/cpu: host memory, pure Go
//   - backend/webgpu: GPU buffers via WebGPU
type Device interface {
	// ID returns the device identity. Two Device values with equal IDs are
	// treated as the same device.
	ID() DeviceID

	// Name returns a human-readable device name.
	Name() string

	// Allocate reserves byteSize bytes on the device. The content of the
	// returned memory is unspecified.
	Allocate(byteSize int) (Memory, error)

	// TransferIn pulls the bytes of from (resident on src) into the copy
	// into, which is resident on this device. The backend decides how to
	// service a given source kind and returns an error for sources it
	// cannot pull from. Transfers are synchronous: on return, into holds
	// the source bytes.
	TransferIn(src Device, from Memory, into Memory) error
}

// Memory is an opaque, backend-tagged handle to a fixed-size raw allocation
// on one specific device. It carries no element type information; only the
// raw byte size is tracked.
type Memory interface {
	// Kind returns the backend kind the allocation belongs to.
	Kind() Kind

	// ByteSize returns the size of the allocation in bytes.
	ByteSize() int
}

// HostData is implemented by memories whose bytes are directly visible to
// the host, so other backends can pull from them without staging.
type HostData interface {
	Memory

	// Bytes returns the allocation's bytes. Zero-copy: writes through the
	// slice mutate the copy.
	Bytes() []byte
}

// HostReader is implemented by memories that can read their contents back
// into host bytes, e.g. a GPU buffer read through a staging buffer. It is
// the capability host backends use to pull from accelerators.
type HostReader interface {
	Memory

	// ReadInto copies the allocation's bytes into dst, which must have
	// exactly ByteSize bytes.
	ReadInto(dst []byte) error
}
