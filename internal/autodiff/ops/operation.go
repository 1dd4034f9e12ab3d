// Package ops defines the differentiable operations recorded on the gradient
// tape.
//
// Each operation keeps references to its inputs and output from the forward
// pass and, given dL/d(output), returns dL/d(input) for every input in the
// same order as Inputs. A nil entry means no gradient flows to that input.
//
// Backward is pure orchestration: the arithmetic is delegated to the backend
// passed in, so the same ops run on any tensor.Backend.
package ops

import "github.com/born-ml/ecgnet/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}

// unaryOp holds the bookkeeping shared by single-input operations.
type unaryOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// Inputs returns [x].
func (op *unaryOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the result of the forward pass.
func (op *unaryOp) Output() *tensor.RawTensor {
	return op.output
}

// binaryOp holds the bookkeeping shared by two-input operations.
type binaryOp struct {
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor
}

// Inputs returns [a, b].
func (op *binaryOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the result of the forward pass.
func (op *binaryOp) Output() *tensor.RawTensor {
	return op.output
}

func newBinary(a, b, output *tensor.RawTensor) binaryOp {
	return binaryOp{inputs: []*tensor.RawTensor{a, b}, output: output}
}
