package ops

import "github.com/born-ml/ecgnet/internal/tensor"

// Conv1DOp records a 1-D convolution for autodiff.
//
// Given ∂L/∂output [N, C_out, L_out] it returns
//   - ∂L/∂input  [N, C_in, L]       (transposed convolution of the gradient)
//   - ∂L/∂kernel [C_out, C_in, K]   (correlation of the input with the gradient)
type Conv1DOp struct {
	input   *tensor.RawTensor
	kernel  *tensor.RawTensor
	output  *tensor.RawTensor
	stride  int
	padding int
}

// NewConv1DOp creates a new Conv1D operation.
func NewConv1DOp(input, kernel, output *tensor.RawTensor, stride, padding int) *Conv1DOp {
	return &Conv1DOp{
		input:   input,
		kernel:  kernel,
		output:  output,
		stride:  stride,
		padding: padding,
	}
}

// Inputs returns [input, kernel].
func (op *Conv1DOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input, op.kernel}
}

// Output returns the output tensor.
func (op *Conv1DOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward delegates both gradients to the backend.
func (op *Conv1DOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inputGrad := backend.Conv1DInputBackward(op.input, op.kernel, outputGrad, op.stride, op.padding)
	kernelGrad := backend.Conv1DKernelBackward(op.input, op.kernel, outputGrad, op.stride, op.padding)
	return []*tensor.RawTensor{inputGrad, kernelGrad}
}

// MaxPool1DOp records a 1-D max pooling for autodiff. The backend recomputes
// the winning positions from the saved input.
type MaxPool1DOp struct {
	unaryOp
	kernelSize int
	stride     int
	padding    int
}

// NewMaxPool1DOp creates a new MaxPool1D operation.
func NewMaxPool1DOp(input, output *tensor.RawTensor, kernelSize, stride, padding int) *MaxPool1DOp {
	return &MaxPool1DOp{
		unaryOp:    unaryOp{input, output},
		kernelSize: kernelSize,
		stride:     stride,
		padding:    padding,
	}
}

// Backward routes the gradient to the max positions.
func (op *MaxPool1DOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		backend.MaxPool1DBackward(op.input, outputGrad, op.kernelSize, op.stride, op.padding),
	}
}
