package sharedmem

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestAllocErrorWrapsCause(t *testing.T) {
	cause := errors.New("device lost")
	err := &AllocError{
		Device:   DeviceID{Kind: WebGPU, Ordinal: 0},
		ByteSize: 4096,
		Cause:    cause,
	}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "4096 bytes")
	assert.Contains(t, err.Error(), "WebGPU:0")
	assert.Contains(t, err.Error(), "device lost")
}

func TestTransferErrorWrapsCause(t *testing.T) {
	cause := errors.New("queue timeout")
	err := &TransferError{
		Source:      DeviceID{Kind: CPU, Ordinal: 0},
		Destination: DeviceID{Kind: WebGPU, Ordinal: 0},
		Cause:       cause,
	}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "CPU:0")
	assert.Contains(t, err.Error(), "WebGPU:0")
	assert.Contains(t, err.Error(), "queue timeout")
}
