// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"math/rand"
	"testing"

	"github.com/born-ml/ecgnet/internal/backend/cpu"
	"github.com/born-ml/ecgnet/internal/tensor"
	"github.com/born-ml/ecgnet/nn"
)

// TestModuleInterface verifies that concrete types implement Module interface.
func TestModuleInterface(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name      string
		module    nn.Module[*cpu.CPUBackend]
		input     tensor.Shape
		wantShape tensor.Shape
	}{
		{
			name:      "Linear",
			module:    nn.NewLinear(10, 5, rng, backend),
			input:     tensor.Shape{2, 10},
			wantShape: tensor.Shape{2, 5},
		},
		{
			name: "Sequential",
			module: nn.NewSequential[*cpu.CPUBackend](
				nn.NewConv1D(12, 8, 3, 1, 1, true, rng, backend),
				nn.NewBatchNorm1D(8, backend),
				nn.NewReLU[*cpu.CPUBackend](),
				nn.NewMaxPool1D(3, 2, 1, backend),
				nn.NewGlobalAvgPool1D[*cpu.CPUBackend](),
			),
			input:     tensor.Shape{2, 12, 20},
			wantShape: tensor.Shape{2, 8},
		},
		{
			name:      "Bottleneck",
			module:    nn.NewBottleneck(16, 4, 2, rng, backend),
			input:     tensor.Shape{2, 16, 20},
			wantShape: tensor.Shape{2, 16, 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tensor.Randn(tt.input, rng, backend)
			out := tt.module.Forward(input)
			if !out.Shape().Equal(tt.wantShape) {
				t.Errorf("Forward shape = %v, want %v", out.Shape(), tt.wantShape)
			}

			if len(tt.module.Parameters()) == 0 {
				t.Error("Parameters() returned no parameters")
			}
		})
	}
}

// TestResNet1D verifies the public constructor and mode switch.
func TestResNet1D(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(42))
	model := nn.NewResNet1D([]int{1, 1, 1, 1}, 4, rng, backend)

	nn.SetTraining[*cpu.CPUBackend](model, false)

	x := tensor.Randn(tensor.Shape{2, 12, 64}, rng, backend)
	probs := nn.Sigmoid(model.Forward(x))
	if !probs.Shape().Equal(tensor.Shape{2, 4}) {
		t.Fatalf("output shape = %v, want [2 4]", probs.Shape())
	}
	for _, p := range probs.Data() {
		if p <= 0 || p >= 1 {
			t.Errorf("probability %v outside (0, 1)", p)
		}
	}

	if n := nn.NumParameters(model.Parameters()); n == 0 {
		t.Error("NumParameters() = 0")
	}
	if got := len(nn.ResNet50Layers); got != 4 {
		t.Errorf("len(ResNet50Layers) = %d, want 4", got)
	}
}

// TestBCEWithLogitsLoss checks the loss at zero logits is ln 2.
func TestBCEWithLogitsLoss(t *testing.T) {
	backend := cpu.New()
	logits := tensor.Zeros(tensor.Shape{2, 3}, backend)
	targets := tensor.Ones(tensor.Shape{2, 3}, backend)

	loss := nn.NewBCEWithLogitsLoss(backend).Forward(logits, targets).Item()
	if diff := loss - 0.6931472; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("loss = %v, want ln 2", loss)
	}
}
