package ops

import "github.com/born-ml/ecgnet/internal/tensor"

// MatMulOp represents output = a @ b for 2-D a [M, K] and b [K, N].
//
// Backward:
//   - grad_a = g @ b^T
//   - grad_b = a^T @ g
type MatMulOp struct{ binaryOp }

// NewMatMulOp creates a new MatMulOp.
func NewMatMulOp(a, b, output *tensor.RawTensor) *MatMulOp {
	return &MatMulOp{newBinary(a, b, output)}
}

// Backward computes input gradients for matrix multiplication.
func (op *MatMulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.RawTensor{
		backend.MatMul(outputGrad, backend.Transpose(b)),
		backend.MatMul(backend.Transpose(a), outputGrad),
	}
}

// TransposeOp represents output = x^T for a 2-D x.
//
// The CPU backend copies on transpose, so this op must be recorded for the
// gradient of a transposed weight to reach the weight itself.
type TransposeOp struct{ unaryOp }

// NewTransposeOp creates a new TransposeOp.
func NewTransposeOp(input, output *tensor.RawTensor) *TransposeOp {
	return &TransposeOp{unaryOp{input, output}}
}

// Backward transposes the gradient back.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Transpose(outputGrad)}
}

// ReshapeOp represents output = reshape(x, newShape).
type ReshapeOp struct{ unaryOp }

// NewReshapeOp creates a new ReshapeOp.
func NewReshapeOp(input, output *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{unaryOp{input, output}}
}

// Backward reshapes the gradient to the input's shape.
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Reshape(outputGrad, op.input.Shape())}
}

// SumDimOp represents output = sum(x, dim).
type SumDimOp struct {
	unaryOp
	dim     int
	keepDim bool
	mean    bool
}

// NewSumDimOp creates the op for a sum along dim.
func NewSumDimOp(input, output *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{unaryOp: unaryOp{input, output}, dim: input.Shape().NormalizeDim(dim), keepDim: keepDim}
}

// NewMeanDimOp creates the op for a mean along dim.
func NewMeanDimOp(input, output *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	op := NewSumDimOp(input, output, dim, keepDim)
	op.mean = true
	return op
}

// Backward broadcasts the gradient back along the reduced dimension, scaled
// by 1/size for a mean.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inShape := op.input.Shape()

	g := outputGrad
	if !op.keepDim {
		kept := inShape.Clone()
		kept[op.dim] = 1
		g = backend.Reshape(g, kept)
	}
	if op.mean {
		g = backend.MulScalar(g, 1/float32(inShape[op.dim]))
	}

	// Broadcasting against zeros expands g to the input shape.
	zeros := tensor.MustRaw(inShape, backend.Device())
	return []*tensor.RawTensor{backend.Add(zeros, g)}
}
