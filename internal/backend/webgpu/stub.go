//go:build !windows

package webgpu

import "github.com/born-ml/coherence/internal/sharedmem"

// Verify that the stub still satisfies the device contract.
var _ sharedmem.Device = (*Device)(nil)

// Device is a placeholder on platforms without wgpu_native support.
// Every operation fails with ErrNotSupported.
type Device struct{}

// New reports that WebGPU is unavailable on this platform.
func New() (*Device, error) { return nil, ErrNotSupported }

// IsAvailable reports whether WebGPU is available on the current system.
func IsAvailable() bool { return false }

// ID returns the device identity.
func (d *Device) ID() sharedmem.DeviceID {
	return sharedmem.DeviceID{Kind: sharedmem.WebGPU}
}

// Name returns the device name.
func (d *Device) Name() string { return "WebGPU" }

// Allocate always fails with ErrNotSupported.
func (d *Device) Allocate(int) (sharedmem.Memory, error) { return nil, ErrNotSupported }

// TransferIn always fails with ErrNotSupported.
func (d *Device) TransferIn(sharedmem.Device, sharedmem.Memory, sharedmem.Memory) error {
	return ErrNotSupported
}

// Release is a no-op.
func (d *Device) Release() {}

// MemoryStats returns zeroed stats.
func (d *Device) MemoryStats() MemoryStats { return MemoryStats{} }
