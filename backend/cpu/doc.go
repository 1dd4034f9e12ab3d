// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Im2col + GEMM 1D convolutions via gonum BLAS
//   - Float32 storage with float64 batch-norm statistics
//   - Per-sample parallelism over the batch
//   - NumPy-compatible broadcasting
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/ecgnet/backend/cpu"
//	    "github.com/born-ml/ecgnet/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros(tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones(tensor.Shape{2, 3}, backend)
//	    z := x.Add(y)
//	}
//
// # Determinism
//
// Parallel kernels write disjoint output ranges and reductions across the
// batch run sequentially, so results are bit-identical for any worker count.
package cpu
