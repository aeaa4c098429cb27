package sharedmem

import (
	"testing"

	"github.com/x448/float16"
)

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
		{Float16, 2},
		{Int32, 4},
		{Int64, 8},
		{Uint8, 1},
		{Bool, 1},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestDataTypeString(t *testing.T) {
	tests := []struct {
		dtype DataType
		name  string
	}{
		{Float32, "float32"},
		{Float64, "float64"},
		{Float16, "float16"},
		{Int32, "int32"},
		{Int64, "int64"},
		{Uint8, "uint8"},
		{Bool, "bool"},
		{DataType(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.dtype.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
	}
}

func TestDataTypeOf(t *testing.T) {
	if got := dataTypeOf[float32](); got != Float32 {
		t.Errorf("dataTypeOf[float32]() = %s, want float32", got)
	}
	if got := dataTypeOf[float64](); got != Float64 {
		t.Errorf("dataTypeOf[float64]() = %s, want float64", got)
	}
	if got := dataTypeOf[float16.Float16](); got != Float16 {
		t.Errorf("dataTypeOf[float16.Float16]() = %s, want float16", got)
	}
	if got := dataTypeOf[int32](); got != Int32 {
		t.Errorf("dataTypeOf[int32]() = %s, want int32", got)
	}
	if got := dataTypeOf[int64](); got != Int64 {
		t.Errorf("dataTypeOf[int64]() = %s, want int64", got)
	}
	if got := dataTypeOf[uint8](); got != Uint8 {
		t.Errorf("dataTypeOf[uint8]() = %s, want uint8", got)
	}
	if got := dataTypeOf[bool](); got != Bool {
		t.Errorf("dataTypeOf[bool]() = %s, want bool", got)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
	}{
		{CPU, "CPU"},
		{CUDA, "CUDA"},
		{Vulkan, "Vulkan"},
		{Metal, "Metal"},
		{WebGPU, "WebGPU"},
		{Kind(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
	}
}

func TestDeviceIDString(t *testing.T) {
	id := DeviceID{Kind: WebGPU, Ordinal: 2}
	if got := id.String(); got != "WebGPU:2" {
		t.Errorf("String() = %q, want %q", got, "WebGPU:2")
	}
}
