// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor API of ecgnet.
//
// # Overview
//
// Tensors are contiguous row-major float32 arrays bound to a compute backend.
// This package provides:
//   - Tensor[B]: high-level tensor whose operations dispatch to backend B
//   - RawTensor: the storage type that gradients are keyed by
//   - Backend: the operation set a compute device implements
//   - Shape, Device: core type definitions
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
//
//	    // [batch, leads, samples]
//	    x := tensor.Zeros(tensor.Shape{4, 12, 1000}, backend)
//	    y := x.MeanDim(2, false) // [4, 12]
//	}
//
// # Broadcasting
//
// Element-wise operations follow NumPy broadcasting rules, which is how a
// per-channel bias of shape [1, C, 1] is added to a [N, C, L] activation.
package tensor
