// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides automatic differentiation capabilities.
//
// This package implements reverse-mode automatic differentiation (backpropagation)
// using a gradient tape. It wraps any backend to add autodiff capabilities.
//
// Example:
//
//	import (
//	    "github.com/born-ml/ecgnet/autodiff"
//	    "github.com/born-ml/ecgnet/backend/cpu"
//	    "github.com/born-ml/ecgnet/nn"
//	)
//
//	func main() {
//	    // Wrap CPU backend with autodiff
//	    backend := autodiff.New(cpu.New())
//
//	    backend.Tape().StartRecording()
//	    loss := criterion.Forward(model.Forward(signals), labels)
//
//	    // Compute gradients
//	    grads := autodiff.Backward(loss, backend)
//	}
package autodiff

import (
	"github.com/born-ml/ecgnet/internal/autodiff"
	"github.com/born-ml/ecgnet/internal/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
//
// Example:
//
//	base := cpu.New()
//	backend := autodiff.New(base)
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable interface for backends that support backpropagation.
type BackwardCapable = autodiff.BackwardCapable

// Backward computes gradients of t via backpropagation.
func Backward[B BackwardCapable](t *tensor.Tensor[B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}

// NoGrad runs fn without recording operations.
//
// Example:
//
//	autodiff.NoGrad(backend, func() {
//	    probs = nn.Sigmoid(model.Forward(signals))
//	})
func NoGrad[B BackwardCapable](backend B, fn func()) {
	autodiff.NoGrad(backend, fn)
}
