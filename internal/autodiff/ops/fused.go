package ops

import "github.com/born-ml/ecgnet/internal/tensor"

// BatchNorm1DOp records a batch normalization for autodiff.
//
// Inputs are [input, gamma, beta]. The state is captured by value at forward
// time; its Training flag decides whether batch or running statistics were
// used, and the backend recomputes the batch statistics from the input.
type BatchNorm1DOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
	state  tensor.BatchNormState
}

// NewBatchNorm1DOp creates a new BatchNorm1D operation.
func NewBatchNorm1DOp(input, gamma, beta, output *tensor.RawTensor, state tensor.BatchNormState) *BatchNorm1DOp {
	return &BatchNorm1DOp{
		inputs: []*tensor.RawTensor{input, gamma, beta},
		output: output,
		state:  state,
	}
}

// Inputs returns [input, gamma, beta].
func (op *BatchNorm1DOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the normalized tensor.
func (op *BatchNorm1DOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward returns the gradients for input, gamma and beta.
func (op *BatchNorm1DOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	dx, dgamma, dbeta := backend.BatchNorm1DBackward(op.inputs[0], op.inputs[1], outputGrad, op.state)
	return []*tensor.RawTensor{dx, dgamma, dbeta}
}

// BCEWithLogitsOp records the fused sigmoid + binary cross-entropy loss.
//
// Only the logits receive a gradient: (sigmoid(x) - y) / count. Targets are
// data, not parameters.
type BCEWithLogitsOp struct {
	logits  *tensor.RawTensor
	targets *tensor.RawTensor
	output  *tensor.RawTensor
}

// NewBCEWithLogitsOp creates a new BCEWithLogitsOp.
func NewBCEWithLogitsOp(logits, targets, output *tensor.RawTensor) *BCEWithLogitsOp {
	return &BCEWithLogitsOp{logits: logits, targets: targets, output: output}
}

// Inputs returns [logits, targets].
func (op *BCEWithLogitsOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.logits, op.targets}
}

// Output returns the scalar loss.
func (op *BCEWithLogitsOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward computes the logits gradient.
func (op *BCEWithLogitsOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		backend.BCEWithLogitsBackward(op.logits, op.targets, outputGrad),
		nil,
	}
}
