package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations; the autodiff
// decorator wraps a Backend and records differentiable calls.
//
// Every operation returns a newly allocated RawTensor and leaves its inputs
// untouched (BatchNorm1D running statistics are the one documented
// exception).
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Scalar operations
	MulScalar(x *RawTensor, scalar float32) *RawTensor
	AddScalar(x *RawTensor, scalar float32) *RawTensor

	// Matrix operations (2-D only): [M, K] @ [K, N] -> [M, N]
	MatMul(a, b *RawTensor) *RawTensor
	Transpose(t *RawTensor) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor

	// Reductions
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// Math operations (element-wise)
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor
	Rsqrt(x *RawTensor) *RawTensor

	// Activations
	ReLU(x *RawTensor) *RawTensor
	Sigmoid(x *RawTensor) *RawTensor

	// Conv1D: input [N, C_in, L], kernel [C_out, C_in, K] -> [N, C_out, L_out]
	// with L_out = (L + 2*padding - K)/stride + 1.
	Conv1D(input, kernel *RawTensor, stride, padding int) *RawTensor
	Conv1DInputBackward(input, kernel, grad *RawTensor, stride, padding int) *RawTensor
	Conv1DKernelBackward(input, kernel, grad *RawTensor, stride, padding int) *RawTensor

	// MaxPool1D over [N, C, L]. Padded positions never win.
	MaxPool1D(input *RawTensor, kernelSize, stride, padding int) *RawTensor
	MaxPool1DBackward(input, grad *RawTensor, kernelSize, stride, padding int) *RawTensor

	// BatchNorm1D normalizes [N, C, L] per channel. In training mode it uses
	// batch statistics and updates state's running statistics in place.
	BatchNorm1D(input, gamma, beta *RawTensor, state BatchNormState) *RawTensor
	BatchNorm1DBackward(input, gamma, grad *RawTensor, state BatchNormState) (inputGrad, gammaGrad, betaGrad *RawTensor)

	// BCEWithLogits returns the scalar mean binary cross-entropy of
	// sigmoid(logits) against {0,1} targets of the same shape.
	BCEWithLogits(logits, targets *RawTensor) *RawTensor
	BCEWithLogitsBackward(logits, targets, grad *RawTensor) *RawTensor

	// Metadata
	Name() string
	Device() Device
}

// BatchNormState carries the per-call configuration and buffers of a
// batch-normalization layer.
type BatchNormState struct {
	RunningMean *RawTensor // [C]
	RunningVar  *RawTensor // [C], unbiased
	Momentum    float32    // running-stat update factor
	Eps         float32
	Training    bool
}
