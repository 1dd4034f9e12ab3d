// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/ecgnet/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: Pure Go, GEMM via gonum BLAS, parallel over the batch
//
// Decorator backends for additional functionality:
//   - autodiff: Automatic differentiation (wraps any backend)
//
// Example:
//
//	import (
//	    "github.com/born-ml/ecgnet/backend/cpu"
//	    "github.com/born-ml/ecgnet/tensor"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros(tensor.Shape{2, 3}, backend)
//	y := tensor.Ones(tensor.Shape{2, 3}, backend)
//	z := x.Add(y) // Uses backend.Add under the hood
type Backend interface {
	// Element-wise binary operations.
	Add(a, b *RawTensor) *RawTensor // Element-wise addition.
	Sub(a, b *RawTensor) *RawTensor // Element-wise subtraction.
	Mul(a, b *RawTensor) *RawTensor // Element-wise multiplication.
	Div(a, b *RawTensor) *RawTensor // Element-wise division.

	// Scalar operations.
	MulScalar(x *RawTensor, scalar float32) *RawTensor // Multiply by scalar.
	AddScalar(x *RawTensor, scalar float32) *RawTensor // Add scalar.

	// Matrix operations.
	MatMul(a, b *RawTensor) *RawTensor // 2-D matrix multiplication.
	Transpose(t *RawTensor) *RawTensor // 2-D transpose.

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor // Reshape tensor.

	// Reduction operations.
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor  // Sum along dimension.
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor // Mean along dimension.

	// Math operations (element-wise).
	Exp(x *RawTensor) *RawTensor   // Exponential.
	Log(x *RawTensor) *RawTensor   // Natural logarithm.
	Sqrt(x *RawTensor) *RawTensor  // Square root.
	Rsqrt(x *RawTensor) *RawTensor // Reciprocal square root (1/sqrt(x)).

	// Activation functions.
	ReLU(x *RawTensor) *RawTensor    // max(x, 0).
	Sigmoid(x *RawTensor) *RawTensor // 1 / (1 + exp(-x)).

	// Convolutional operations.
	Conv1D(input, kernel *RawTensor, stride, padding int) *RawTensor                      // 1D convolution.
	Conv1DInputBackward(input, kernel, grad *RawTensor, stride, padding int) *RawTensor   // Conv1D input gradient.
	Conv1DKernelBackward(input, kernel, grad *RawTensor, stride, padding int) *RawTensor  // Conv1D kernel gradient.
	MaxPool1D(input *RawTensor, kernelSize, stride, padding int) *RawTensor               // 1D max pooling.
	MaxPool1DBackward(input, grad *RawTensor, kernelSize, stride, padding int) *RawTensor // MaxPool1D gradient.

	// Normalization.
	BatchNorm1D(input, gamma, beta *RawTensor, state BatchNormState) *RawTensor
	BatchNorm1DBackward(input, gamma, grad *RawTensor, state BatchNormState) (inputGrad, gammaGrad, betaGrad *RawTensor)

	// Loss.
	BCEWithLogits(logits, targets *RawTensor) *RawTensor               // Mean binary cross-entropy on logits.
	BCEWithLogitsBackward(logits, targets, grad *RawTensor) *RawTensor // Gradient with respect to logits.

	// Metadata.
	Name() string   // Backend name (e.g., "CPU").
	Device() Device // Device type.
}

// BatchNormState carries running statistics and mode for BatchNorm1D.
type BatchNormState = tensor.BatchNormState

// Compile-time check that internal Backend implements public Backend.
var _ Backend = tensor.Backend(nil)
