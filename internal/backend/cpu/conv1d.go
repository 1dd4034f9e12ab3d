package cpu

import (
	"fmt"

	"github.com/born-ml/ecgnet/internal/parallel"
	"github.com/born-ml/ecgnet/internal/tensor"
)

// convGeom holds the dimensions of one Conv1D call.
type convGeom struct {
	batch, inCh, length int
	outCh, kernel       int
	stride, padding     int
	outLen              int
}

func newConvGeom(input, kernel *tensor.RawTensor, stride, padding int) convGeom {
	in, k := input.Shape(), kernel.Shape()
	if len(in) != 3 || len(k) != 3 {
		panic(fmt.Sprintf("conv1d: expected [N,C,L] input and [C_out,C_in,K] kernel, got %v and %v", in, k))
	}
	if in[1] != k[1] {
		panic(fmt.Sprintf("conv1d: input has %d channels, kernel expects %d", in[1], k[1]))
	}
	if stride < 1 || padding < 0 {
		panic(fmt.Sprintf("conv1d: invalid stride %d or padding %d", stride, padding))
	}
	outLen := (in[2]+2*padding-k[2])/stride + 1
	if outLen <= 0 {
		panic(fmt.Sprintf("conv1d: kernel %d larger than padded length %d", k[2], in[2]+2*padding))
	}
	return convGeom{
		batch: in[0], inCh: in[1], length: in[2],
		outCh: k[0], kernel: k[2],
		stride: stride, padding: padding,
		outLen: outLen,
	}
}

// rows is the height of the unfolded matrix: C_in*K.
func (g convGeom) rows() int { return g.inCh * g.kernel }

// direct reports whether the unfolded matrix equals the input itself.
func (g convGeom) direct() bool { return g.kernel == 1 && g.stride == 1 && g.padding == 0 }

// Conv1D performs 1-D convolution (cross-correlation) using im2col + GEMM.
//
// Each sample is unfolded into a [C_in*K, L_out] matrix, then multiplied by the
// kernel viewed as [C_out, C_in*K]. The product is exactly the [C_out, L_out]
// slice of the output for that sample. Samples run in parallel.
func (cpu *CPUBackend) Conv1D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	g := newConvGeom(input, kernel, stride, padding)
	result := tensor.MustRaw(tensor.Shape{g.batch, g.outCh, g.outLen}, cpu.device)

	x, w, out := input.Data(), kernel.Data(), result.Data()
	sampleIn := g.inCh * g.length
	sampleOut := g.outCh * g.outLen

	parallel.For(g.batch, func(n int) {
		xs := x[n*sampleIn : (n+1)*sampleIn]
		col := xs
		if !g.direct() {
			col = make([]float32, g.rows()*g.outLen)
			im2col(xs, col, g)
		}
		gemm(false, false, g.outCh, g.outLen, g.rows(), w, col, 0, out[n*sampleOut:(n+1)*sampleOut])
	}, cpu.par)

	return result
}

// Conv1DInputBackward computes the gradient of Conv1D with respect to its
// input: dcol = W^T @ grad, folded back with col2im.
func (cpu *CPUBackend) Conv1DInputBackward(input, kernel, grad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	g := newConvGeom(input, kernel, stride, padding)
	result := tensor.MustRaw(input.Shape(), cpu.device)

	w, dy, dx := kernel.Data(), grad.Data(), result.Data()
	sampleIn := g.inCh * g.length
	sampleOut := g.outCh * g.outLen

	parallel.For(g.batch, func(n int) {
		dxs := dx[n*sampleIn : (n+1)*sampleIn]
		dys := dy[n*sampleOut : (n+1)*sampleOut]
		if g.direct() {
			gemm(true, false, g.rows(), g.outLen, g.outCh, w, dys, 0, dxs)
			return
		}
		dcol := make([]float32, g.rows()*g.outLen)
		gemm(true, false, g.rows(), g.outLen, g.outCh, w, dys, 0, dcol)
		col2im(dcol, dxs, g)
	}, cpu.par)

	return result
}

// Conv1DKernelBackward computes the gradient of Conv1D with respect to the
// kernel: dW = sum over samples of grad_n @ col_n^T.
//
// Samples are accumulated in order so the result does not depend on the
// worker count.
func (cpu *CPUBackend) Conv1DKernelBackward(input, kernel, grad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	g := newConvGeom(input, kernel, stride, padding)
	result := tensor.MustRaw(kernel.Shape(), cpu.device)

	x, dy, dw := input.Data(), grad.Data(), result.Data()
	sampleIn := g.inCh * g.length
	sampleOut := g.outCh * g.outLen

	var col []float32
	if !g.direct() {
		col = make([]float32, g.rows()*g.outLen)
	}
	for n := 0; n < g.batch; n++ {
		xs := x[n*sampleIn : (n+1)*sampleIn]
		if g.direct() {
			col = xs
		} else {
			im2col(xs, col, g)
		}
		gemm(false, true, g.outCh, g.rows(), g.outLen, dy[n*sampleOut:(n+1)*sampleOut], col, 1, dw)
	}

	return result
}

// im2col unfolds one sample [C_in, L] into col [C_in*K, L_out].
// Out-of-range positions are zero.
func im2col(x, col []float32, g convGeom) {
	for c := 0; c < g.inCh; c++ {
		row := x[c*g.length : (c+1)*g.length]
		for k := 0; k < g.kernel; k++ {
			dst := col[(c*g.kernel+k)*g.outLen : (c*g.kernel+k+1)*g.outLen]
			for o := range dst {
				pos := o*g.stride - g.padding + k
				if pos >= 0 && pos < g.length {
					dst[o] = row[pos]
				} else {
					dst[o] = 0
				}
			}
		}
	}
}

// col2im is the adjoint of im2col: it scatter-adds col into dx.
func col2im(col, dx []float32, g convGeom) {
	for c := 0; c < g.inCh; c++ {
		row := dx[c*g.length : (c+1)*g.length]
		for k := 0; k < g.kernel; k++ {
			src := col[(c*g.kernel+k)*g.outLen : (c*g.kernel+k+1)*g.outLen]
			for o, v := range src {
				pos := o*g.stride - g.padding + k
				if pos >= 0 && pos < g.length {
					row[pos] += v
				}
			}
		}
	}
}
