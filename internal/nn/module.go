// Package nn implements the neural network building blocks of the ECG model.
//
// This package provides:
//   - Module interface: base interface for all NN components
//   - Parameter: trainable tensors with gradient slots
//   - Conv1D, BatchNorm1D, MaxPool1D, GlobalAvgPool1D, Linear, ReLU
//   - BCEWithLogitsLoss for multi-label targets
//   - Sequential: container for stacking layers
//   - Initializers: KaimingNormal, UniformFanIn, Zeros, Ones
//
// Layers panic on shape misuse, like the backend kernels they call.
package nn

import (
	"github.com/born-ml/ecgnet/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	stem := nn.NewSequential[B](
//	    nn.NewConv1D(12, 64, 15, 2, 7, false, rng, backend),
//	    nn.NewBatchNorm1D(64, backend),
//	    nn.NewReLU[B](),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[B]) *tensor.Tensor[B]

	// Parameters returns all trainable parameters of this module,
	// including those of nested modules.
	Parameters() []*Parameter[B]
}

// Trainable is implemented by modules whose forward pass differs between
// training and evaluation, such as BatchNorm1D, and by containers of them.
type Trainable interface {
	SetTraining(training bool)
}

// SetTraining switches m (and everything it contains) between training and
// evaluation mode. Modules without mode-dependent behavior are left alone.
func SetTraining[B tensor.Backend](m Module[B], training bool) {
	if t, ok := m.(Trainable); ok {
		t.SetTraining(training)
	}
}
