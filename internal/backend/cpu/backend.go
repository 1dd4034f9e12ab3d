// Package cpu implements the CPU backend: element-wise kernels in pure Go,
// GEMM through gonum's blas32, and batch-parallel 1-D convolution, pooling
// and batch normalization.
package cpu

import (
	"github.com/born-ml/ecgnet/internal/parallel"
	"github.com/born-ml/ecgnet/internal/tensor"
)

// Compile-time check that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device tensor.Device
	par    parallel.Config
}

// New creates a new CPU backend using every available core.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit fan-out policy.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		par:    cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Parallel returns the fan-out policy used by the kernels.
func (cpu *CPUBackend) Parallel() parallel.Config {
	return cpu.par
}
