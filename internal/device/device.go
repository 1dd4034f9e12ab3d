// Package device picks the compute device for a run.
package device

import (
	"fmt"
	"runtime"

	"github.com/klauspost/cpuid/v2"

	"github.com/born-ml/ecgnet/internal/parallel"
	"github.com/born-ml/ecgnet/internal/tensor"
)

// Info describes the selected device.
type Info struct {
	Kind          tensor.Device
	Brand         string
	PhysicalCores int
	LogicalCores  int
	AVX2          bool
	AVX512        bool
	Workers       int
}

// Select chooses the device once at start. The CPU is the only backend
// compiled in. maxWorkers caps kernel parallelism; zero or less means one
// worker per logical core.
func Select(maxWorkers int) Info {
	logical := cpuid.CPU.LogicalCores
	if logical <= 0 {
		logical = runtime.NumCPU()
	}
	workers := logical
	if maxWorkers > 0 && maxWorkers < workers {
		workers = maxWorkers
	}

	return Info{
		Kind:          tensor.CPU,
		Brand:         cpuid.CPU.BrandName,
		PhysicalCores: cpuid.CPU.PhysicalCores,
		LogicalCores:  logical,
		AVX2:          cpuid.CPU.Supports(cpuid.AVX2),
		AVX512:        cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ),
		Workers:       workers,
	}
}

// Parallel returns the kernel fan-out configuration for this device.
func (i Info) Parallel() parallel.Config {
	return parallel.WithWorkers(i.Workers)
}

// String returns the device name, e.g. "cpu".
func (i Info) String() string {
	return i.Kind.String()
}

// Describe summarizes the hardware on one line.
func (i Info) Describe() string {
	return fmt.Sprintf("%s (%d physical / %d logical cores, avx2=%t, avx512=%t, workers=%d)",
		i.Brand, i.PhysicalCores, i.LogicalCores, i.AVX2, i.AVX512, i.Workers)
}
