// Package autodiff implements automatic differentiation using the decorator pattern.
//
// AutodiffBackend wraps any Backend implementation and adds gradient
// tracking through a GradientTape.
//
// Architecture:
//   - Decorator pattern: AutodiffBackend[B] wraps any Backend implementation
//   - GradientTape: records operations during the forward pass
//   - Operation interface: each op implements its backward pass
//   - Reverse-mode AD: gradients flow from the loss to every parameter
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	loss := criterion.Forward(net.Forward(x), y)
//	grads := autodiff.Backward(loss, backend)
//	backend.Tape().Clear()
package autodiff

import (
	"github.com/born-ml/ecgnet/internal/autodiff/ops"
	"github.com/born-ml/ecgnet/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements the tensor.Backend interface and records operations in a GradientTape.
type AutodiffBackend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// record adds op to the tape when recording. The op is built lazily so
// inference pays nothing.
func (b *AutodiffBackend[B]) record(build func() ops.Operation) {
	if b.tape.IsRecording() {
		b.tape.Record(build())
	}
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Add(a, c)
	b.record(func() ops.Operation { return ops.NewAddOp(a, c, result) })
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sub(a, c)
	b.record(func() ops.Operation { return ops.NewSubOp(a, c, result) })
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Mul(a, c)
	b.record(func() ops.Operation { return ops.NewMulOp(a, c, result) })
	return result
}

// Div performs element-wise division and records the operation.
func (b *AutodiffBackend[B]) Div(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Div(a, c)
	b.record(func() ops.Operation { return ops.NewDivOp(a, c, result) })
	return result
}

// MulScalar multiplies by a scalar and records the operation.
func (b *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	result := b.inner.MulScalar(x, scalar)
	b.record(func() ops.Operation { return ops.NewMulScalarOp(x, result, scalar) })
	return result
}

// AddScalar adds a scalar and records the operation.
func (b *AutodiffBackend[B]) AddScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	result := b.inner.AddScalar(x, scalar)
	b.record(func() ops.Operation { return ops.NewAddScalarOp(x, result) })
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.MatMul(a, c)
	b.record(func() ops.Operation { return ops.NewMatMulOp(a, c, result) })
	return result
}

// Transpose transposes a 2-D tensor and records the operation.
//
// The CPU backend copies on transpose, so without this record the gradient
// computed for w^T inside Linear would never reach w.
func (b *AutodiffBackend[B]) Transpose(t *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Transpose(t)
	b.record(func() ops.Operation { return ops.NewTransposeOp(t, result) })
	return result
}

// Reshape reshapes a tensor and records the operation.
//
// Conv1D bias is stored as [C_out] and reshaped to [1, C_out, 1] for
// broadcasting; the record lets its gradient flow back to the parameter.
func (b *AutodiffBackend[B]) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result := b.inner.Reshape(t, newShape)
	b.record(func() ops.Operation { return ops.NewReshapeOp(t, result) })
	return result
}

// SumDim sums along a dimension and records the operation.
func (b *AutodiffBackend[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	result := b.inner.SumDim(x, dim, keepDim)
	b.record(func() ops.Operation { return ops.NewSumDimOp(x, result, dim, keepDim) })
	return result
}

// MeanDim averages along a dimension and records the operation.
func (b *AutodiffBackend[B]) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	result := b.inner.MeanDim(x, dim, keepDim)
	b.record(func() ops.Operation { return ops.NewMeanDimOp(x, result, dim, keepDim) })
	return result
}

// Exp computes e^x and records the operation.
func (b *AutodiffBackend[B]) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Exp(x)
	b.record(func() ops.Operation { return ops.NewExpOp(x, result) })
	return result
}

// Log computes ln(x) and records the operation.
func (b *AutodiffBackend[B]) Log(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Log(x)
	b.record(func() ops.Operation { return ops.NewLogOp(x, result) })
	return result
}

// Sqrt computes sqrt(x) and records the operation.
func (b *AutodiffBackend[B]) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sqrt(x)
	b.record(func() ops.Operation { return ops.NewSqrtOp(x, result) })
	return result
}

// Rsqrt computes 1/sqrt(x) and records the operation.
func (b *AutodiffBackend[B]) Rsqrt(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Rsqrt(x)
	b.record(func() ops.Operation { return ops.NewRsqrtOp(x, result) })
	return result
}

// ReLU applies max(0, x) and records the operation.
func (b *AutodiffBackend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.ReLU(x)
	b.record(func() ops.Operation { return ops.NewReLUOp(x, result) })
	return result
}

// Sigmoid applies the logistic function and records the operation.
func (b *AutodiffBackend[B]) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sigmoid(x)
	b.record(func() ops.Operation { return ops.NewSigmoidOp(x, result) })
	return result
}

// Conv1D performs 1-D convolution and records the operation.
func (b *AutodiffBackend[B]) Conv1D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	result := b.inner.Conv1D(input, kernel, stride, padding)
	b.record(func() ops.Operation { return ops.NewConv1DOp(input, kernel, result, stride, padding) })
	return result
}

// Conv1DInputBackward delegates to the wrapped backend (not recorded).
func (b *AutodiffBackend[B]) Conv1DInputBackward(input, kernel, grad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	return b.inner.Conv1DInputBackward(input, kernel, grad, stride, padding)
}

// Conv1DKernelBackward delegates to the wrapped backend (not recorded).
func (b *AutodiffBackend[B]) Conv1DKernelBackward(input, kernel, grad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	return b.inner.Conv1DKernelBackward(input, kernel, grad, stride, padding)
}

// MaxPool1D performs 1-D max pooling and records the operation.
func (b *AutodiffBackend[B]) MaxPool1D(input *tensor.RawTensor, kernelSize, stride, padding int) *tensor.RawTensor {
	result := b.inner.MaxPool1D(input, kernelSize, stride, padding)
	b.record(func() ops.Operation { return ops.NewMaxPool1DOp(input, result, kernelSize, stride, padding) })
	return result
}

// MaxPool1DBackward delegates to the wrapped backend (not recorded).
func (b *AutodiffBackend[B]) MaxPool1DBackward(input, grad *tensor.RawTensor, kernelSize, stride, padding int) *tensor.RawTensor {
	return b.inner.MaxPool1DBackward(input, grad, kernelSize, stride, padding)
}

// BatchNorm1D normalizes per channel and records the operation.
func (b *AutodiffBackend[B]) BatchNorm1D(input, gamma, beta *tensor.RawTensor, state tensor.BatchNormState) *tensor.RawTensor {
	result := b.inner.BatchNorm1D(input, gamma, beta, state)
	b.record(func() ops.Operation { return ops.NewBatchNorm1DOp(input, gamma, beta, result, state) })
	return result
}

// BatchNorm1DBackward delegates to the wrapped backend (not recorded).
func (b *AutodiffBackend[B]) BatchNorm1DBackward(
	input, gamma, grad *tensor.RawTensor, state tensor.BatchNormState,
) (inputGrad, gammaGrad, betaGrad *tensor.RawTensor) {
	return b.inner.BatchNorm1DBackward(input, gamma, grad, state)
}

// BCEWithLogits computes the fused loss and records the operation.
func (b *AutodiffBackend[B]) BCEWithLogits(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.BCEWithLogits(logits, targets)
	b.record(func() ops.Operation { return ops.NewBCEWithLogitsOp(logits, targets, result) })
	return result
}

// BCEWithLogitsBackward delegates to the wrapped backend (not recorded).
func (b *AutodiffBackend[B]) BCEWithLogitsBackward(logits, targets, grad *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.BCEWithLogitsBackward(logits, targets, grad)
}

// Compile-time check that AutodiffBackend implements the Backend interface.
var _ BackwardCapable = (*AutodiffBackend[tensor.Backend])(nil)
