package cpu

import (
	"github.com/born-ml/ecgnet/internal/tensor"
)

// broadcaster maps flat indices of a broadcast output back to the flat
// indices of one of its operands.
type broadcaster struct {
	outStrides []int
	inStrides  []int
}

// newBroadcaster prepares the index mapping from outShape to in. Operand
// dimensions of size 1, and leading dimensions the operand lacks, get stride 0.
func newBroadcaster(in, outShape tensor.Shape) broadcaster {
	offset := len(outShape) - len(in)
	own := in.ComputeStrides()
	inStrides := make([]int, len(outShape))
	for i := offset; i < len(outShape); i++ {
		if in[i-offset] != 1 {
			inStrides[i] = own[i-offset]
		}
	}
	return broadcaster{outStrides: outShape.ComputeStrides(), inStrides: inStrides}
}

// index returns the operand index feeding output index i.
func (b broadcaster) index(i int) int {
	idx := 0
	for d, s := range b.outStrides {
		idx += (i / s) * b.inStrides[d]
		i %= s
	}
	return idx
}
