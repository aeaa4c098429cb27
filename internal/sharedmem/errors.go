package sharedmem

import (
	"fmt"

	"github.com/pkg/errors"
)

// Categorical errors returned by SharedMemory operations.
// All of them are errors.Is-checkable.
var (
	// ErrMissingSource indicates the tracker holds no copy on the sync
	// source device. Guarded against, should not occur in normal use.
	ErrMissingSource = errors.New("sharedmem: no copy tracked on source device")

	// ErrMissingDestination indicates Sync was called for a device that was
	// never registered with AddDevice.
	ErrMissingDestination = errors.New("sharedmem: no copy tracked on destination device")

	// ErrInvalidMemory indicates a copy's representation does not match its
	// device's backend. This is a programming error upstream.
	ErrInvalidMemory = errors.New("sharedmem: memory representation does not match device backend")

	// ErrAlreadyTracked indicates AddDevice was called for a device that is
	// already tracked. Registration is intentionally non-idempotent.
	ErrAlreadyTracked = errors.New("sharedmem: device already tracked, no memory allocated")
)

// AllocError reports a failed backend allocation during New or AddDevice.
type AllocError struct {
	Device   DeviceID
	ByteSize int
	Cause    error
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("sharedmem: allocating %d bytes on %s: %v", e.ByteSize, e.Device, e.Cause)
}

func (e *AllocError) Unwrap() error { return e.Cause }

// TransferError reports a failed backend transfer during Sync.
type TransferError struct {
	Source      DeviceID
	Destination DeviceID
	Cause       error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("sharedmem: transferring %s to %s: %v", e.Source, e.Destination, e.Cause)
}

func (e *TransferError) Unwrap() error { return e.Cause }
