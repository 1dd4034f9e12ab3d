// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/ecgnet/internal/backend/cpu"
	"github.com/born-ml/ecgnet/internal/parallel"
	"github.com/born-ml/ecgnet/tensor"
)

// Backend represents the CPU backend implementation.
//
// CPU backend provides pure Go implementations of all tensor operations,
// with matrix products through gonum BLAS and kernels fanned out over the
// batch.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend using one worker per CPU.
//
// Example:
//
//	import (
//	    "github.com/born-ml/ecgnet/backend/cpu"
//	    "github.com/born-ml/ecgnet/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros(tensor.Shape{2, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewWithWorkers creates a CPU backend whose kernels use at most n
// goroutines. Results do not depend on n.
func NewWithWorkers(n int) *Backend {
	return internalcpu.NewWithConfig(parallel.WithWorkers(n))
}
