// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimizers that update network parameters from the
// gradients returned by autodiff.Backward.
//
// # Overview
//
// This package contains:
//   - Adam: adaptive moment estimation with bias correction
//   - SGD: stochastic gradient descent with momentum
//   - New: construction by name ("adam" or "sgd")
//
// Both support an L2 weight-decay term added to the gradient.
//
// # Training Step
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 1e-3})
//
//	for _, batch := range loader.Batches() {
//	    optimizer.ZeroGrad()
//	    backend.Tape().StartRecording()
//
//	    loss := criterion.Forward(model.Forward(signals), labels)
//	    grads := autodiff.Backward(loss, backend)
//	    optimizer.Step(grads)
//
//	    backend.Tape().Clear()
//	}
//
// Parameters are updated in place. A parameter with no entry in the gradient
// map is left untouched.
package optim
