package cpu

import (
	"github.com/born-ml/ecgnet/internal/tensor"
)

// SumDim sums x along dim. With keepDim the reduced axis stays as size 1.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	d := shape.NormalizeDim(dim)
	outer, size, inner := splitAt(shape, d)

	result := tensor.MustRaw(reducedShape(shape, d, keepDim), cpu.device)
	src, dst := x.Data(), result.Data()
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			var sum float64
			for j := 0; j < size; j++ {
				sum += float64(src[(o*size+j)*inner+i])
			}
			dst[o*inner+i] = float32(sum)
		}
	}
	return result
}

// MeanDim averages x along dim.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	d := x.Shape().NormalizeDim(dim)
	sum := cpu.SumDim(x, d, keepDim)
	scale := 1 / float32(x.Shape()[d])
	data := sum.Data()
	for i := range data {
		data[i] *= scale
	}
	return sum
}

// splitAt views shape as [outer, shape[d], inner].
func splitAt(shape tensor.Shape, d int) (outer, size, inner int) {
	outer, inner = 1, 1
	for i := 0; i < d; i++ {
		outer *= shape[i]
	}
	for i := d + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	return outer, shape[d], inner
}

func reducedShape(shape tensor.Shape, d int, keepDim bool) tensor.Shape {
	out := make(tensor.Shape, 0, len(shape))
	for i, s := range shape {
		switch {
		case i != d:
			out = append(out, s)
		case keepDim:
			out = append(out, 1)
		}
	}
	return out
}
