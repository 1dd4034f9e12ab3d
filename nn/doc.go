// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the layers and the ResNet backbone of ecgnet.
//
// # Overview
//
// This package contains:
//   - Layers: Conv1D, BatchNorm1D, MaxPool1D, GlobalAvgPool1D, Linear
//   - Activations: ReLU, Sigmoid
//   - Loss functions: BCEWithLogitsLoss
//   - Models: Bottleneck, ResNet1D
//   - Utilities: Sequential, Module interface, Parameter, SetTraining
//
// # Basic Usage
//
//	import (
//	    "math/rand"
//
//	    "github.com/born-ml/ecgnet/autodiff"
//	    "github.com/born-ml/ecgnet/backend/cpu"
//	    "github.com/born-ml/ecgnet/nn"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    rng := rand.New(rand.NewSource(42))
//
//	    // ResNet-50 layout, five diagnostic labels
//	    model := nn.NewResNet1D(nn.ResNet50Layers, 5, rng, backend)
//
//	    // [batch, 12, length] -> [batch, 5] logits
//	    logits := model.Forward(signals)
//	}
//
// # Training and evaluation mode
//
// BatchNorm1D normalizes with batch statistics in training mode and with its
// running statistics in evaluation mode. Switch a whole model with
// SetTraining or the model's own SetTraining method.
package nn
