package nn

import (
	"fmt"

	"github.com/born-ml/ecgnet/internal/tensor"
)

// Default batch normalization hyperparameters.
const (
	DefaultBNMomentum float32 = 0.1
	DefaultBNEps      float32 = 1e-5
)

// BatchNorm1D normalizes each channel of a [N, C, L] tensor.
//
// In training mode it uses the batch mean and biased variance over (N, L)
// and folds them into the running statistics. In evaluation mode the running
// statistics are used as is. Gamma and beta are parameters; the running
// statistics are buffers and are never handed to an optimizer.
type BatchNorm1D[B tensor.Backend] struct {
	numFeatures int
	momentum    float32
	eps         float32
	training    bool

	gamma *Parameter[B] // [C], initialized to 1
	beta  *Parameter[B] // [C], initialized to 0

	runningMean *tensor.RawTensor // [C], starts at 0
	runningVar  *tensor.RawTensor // [C], starts at 1

	backend B
}

// NewBatchNorm1D creates a batch normalization layer in training mode.
func NewBatchNorm1D[B tensor.Backend](numFeatures int, backend B) *BatchNorm1D[B] {
	if numFeatures <= 0 {
		panic(fmt.Sprintf("batchnorm1d: invalid number of features %d", numFeatures))
	}

	runningVar := tensor.MustRaw(tensor.Shape{numFeatures}, backend.Device())
	runningVar.Fill(1)

	return &BatchNorm1D[B]{
		numFeatures: numFeatures,
		momentum:    DefaultBNMomentum,
		eps:         DefaultBNEps,
		training:    true,
		gamma:       NewParameter("batchnorm1d.weight", Ones(tensor.Shape{numFeatures}, backend)),
		beta:        NewParameter("batchnorm1d.bias", Zeros(tensor.Shape{numFeatures}, backend)),
		runningMean: tensor.MustRaw(tensor.Shape{numFeatures}, backend.Device()),
		runningVar:  runningVar,
		backend:     backend,
	}
}

// Forward normalizes input.
func (bn *BatchNorm1D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) < 2 || shape[1] != bn.numFeatures {
		panic(fmt.Sprintf("batchnorm1d: expected [N,%d,...] input, got %v", bn.numFeatures, shape))
	}

	state := tensor.BatchNormState{
		RunningMean: bn.runningMean,
		RunningVar:  bn.runningVar,
		Momentum:    bn.momentum,
		Eps:         bn.eps,
		Training:    bn.training,
	}
	out := bn.backend.BatchNorm1D(input.Raw(), bn.gamma.Tensor().Raw(), bn.beta.Tensor().Raw(), state)
	return tensor.New(out, bn.backend)
}

// Parameters returns gamma and beta.
func (bn *BatchNorm1D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{bn.gamma, bn.beta}
}

// SetTraining switches between batch and running statistics.
func (bn *BatchNorm1D[B]) SetTraining(training bool) {
	bn.training = training
}

// Training reports whether the layer is in training mode.
func (bn *BatchNorm1D[B]) Training() bool {
	return bn.training
}

// RunningMean returns the running mean buffer.
func (bn *BatchNorm1D[B]) RunningMean() *tensor.RawTensor {
	return bn.runningMean
}

// RunningVar returns the running (unbiased) variance buffer.
func (bn *BatchNorm1D[B]) RunningVar() *tensor.RawTensor {
	return bn.runningVar
}

// String returns a string representation of the layer.
func (bn *BatchNorm1D[B]) String() string {
	return fmt.Sprintf("BatchNorm1D(%d, eps=%g, momentum=%g)", bn.numFeatures, bn.eps, bn.momentum)
}
