package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/born-ml/ecgnet/internal/tensor"
)

// MatMul performs 2-D matrix multiplication: [M, K] @ [K, N] -> [M, N].
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: expected 2-D tensors, got %v and %v", aShape, bShape))
	}
	if aShape[1] != bShape[0] {
		panic(fmt.Sprintf("matmul: inner dimensions do not match: %v @ %v", aShape, bShape))
	}

	m, k, n := aShape[0], aShape[1], bShape[1]
	result := tensor.MustRaw(tensor.Shape{m, n}, cpu.device)
	gemm(false, false, m, n, k, a.Data(), b.Data(), 0, result.Data())
	return result
}

// Transpose swaps the two axes of a 2-D tensor.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor) *tensor.RawTensor {
	shape := t.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("transpose: expected 2-D tensor, got %v", shape))
	}

	rows, cols := shape[0], shape[1]
	result := tensor.MustRaw(tensor.Shape{cols, rows}, cpu.device)
	src, dst := t.Data(), result.Data()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			dst[j*rows+i] = src[i*cols+j]
		}
	}
	return result
}

// Reshape returns a copy of t with a new shape and the same element count.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if newShape.NumElements() != t.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %v (%d elements) to %v (%d elements)",
			t.Shape(), t.NumElements(), newShape, newShape.NumElements()))
	}
	result := tensor.MustRaw(newShape, cpu.device)
	copy(result.Data(), t.Data())
	return result
}

// gemm computes c = op(a) @ op(b) + beta*c on row-major storage, where op(a)
// is [m, k] and op(b) is [k, n]. With transA set, a is stored as [k, m]; with
// transB set, b is stored as [n, k].
func gemm(transA, transB bool, m, n, k int, a, b []float32, beta float32, c []float32) {
	ta, ga := blas.NoTrans, blas32.General{Rows: m, Cols: k, Stride: k, Data: a}
	if transA {
		ta, ga = blas.Trans, blas32.General{Rows: k, Cols: m, Stride: m, Data: a}
	}
	tb, gb := blas.NoTrans, blas32.General{Rows: k, Cols: n, Stride: n, Data: b}
	if transB {
		tb, gb = blas.Trans, blas32.General{Rows: n, Cols: k, Stride: k, Data: b}
	}
	gc := blas32.General{Rows: m, Cols: n, Stride: n, Data: c}
	blas32.Gemm(ta, tb, 1, ga, gb, beta, gc)
}
