package cpu

import (
	"fmt"

	"github.com/born-ml/ecgnet/internal/parallel"
	"github.com/born-ml/ecgnet/internal/tensor"
)

func poolOutLen(shape tensor.Shape, kernelSize, stride, padding int) int {
	if len(shape) != 3 {
		panic(fmt.Sprintf("maxpool1d: expected [N,C,L] input, got %v", shape))
	}
	if kernelSize < 1 || stride < 1 || padding < 0 || 2*padding > kernelSize {
		panic(fmt.Sprintf("maxpool1d: invalid kernel %d, stride %d, padding %d", kernelSize, stride, padding))
	}
	outLen := (shape[2]+2*padding-kernelSize)/stride + 1
	if outLen <= 0 {
		panic(fmt.Sprintf("maxpool1d: kernel %d larger than padded length %d", kernelSize, shape[2]+2*padding))
	}
	return outLen
}

// argmaxWindow returns the index of the first maximum of row inside the
// window starting at start. Padded positions are skipped.
func argmaxWindow(row []float32, start, kernelSize int) int {
	best := -1
	for k := 0; k < kernelSize; k++ {
		pos := start + k
		if pos < 0 || pos >= len(row) {
			continue
		}
		if best < 0 || row[pos] > row[best] {
			best = pos
		}
	}
	return best
}

// MaxPool1D applies 1-D max pooling over the last axis of [N, C, L].
func (cpu *CPUBackend) MaxPool1D(input *tensor.RawTensor, kernelSize, stride, padding int) *tensor.RawTensor {
	shape := input.Shape()
	outLen := poolOutLen(shape, kernelSize, stride, padding)
	batch, channels, length := shape[0], shape[1], shape[2]

	result := tensor.MustRaw(tensor.Shape{batch, channels, outLen}, cpu.device)
	x, out := input.Data(), result.Data()

	parallel.ForBatch(batch, channels, func(n, c int) {
		plane := n*channels + c
		row := x[plane*length : (plane+1)*length]
		dst := out[plane*outLen : (plane+1)*outLen]
		for o := range dst {
			dst[o] = row[argmaxWindow(row, o*stride-padding, kernelSize)]
		}
	}, cpu.par)

	return result
}

// MaxPool1DBackward routes each output gradient to the position that won the
// forward max. Ties go to the first position, matching the forward pass.
func (cpu *CPUBackend) MaxPool1DBackward(input, grad *tensor.RawTensor, kernelSize, stride, padding int) *tensor.RawTensor {
	shape := input.Shape()
	outLen := poolOutLen(shape, kernelSize, stride, padding)
	batch, channels, length := shape[0], shape[1], shape[2]

	result := tensor.MustRaw(shape, cpu.device)
	x, dy, dx := input.Data(), grad.Data(), result.Data()

	parallel.ForBatch(batch, channels, func(n, c int) {
		plane := n*channels + c
		row := x[plane*length : (plane+1)*length]
		drow := dx[plane*length : (plane+1)*length]
		src := dy[plane*outLen : (plane+1)*outLen]
		for o, g := range src {
			drow[argmaxWindow(row, o*stride-padding, kernelSize)] += g
		}
	}, cpu.par)

	return result
}
