package nn

import (
	"math"
	"math/rand"

	"github.com/born-ml/ecgnet/internal/tensor"
)

// KaimingNormal draws weights from N(0, 2/fanOut), the He initialization in
// fan-out mode with the ReLU gain.
//
// For a Conv1D kernel [C_out, C_in, K], fanOut = C_out * K.
func KaimingNormal[B tensor.Backend](fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[B] {
	std := math.Sqrt(2.0 / float64(fanOut))
	t := tensor.Zeros(shape, backend)
	data := t.Data()
	for i := range data {
		data[i] = float32(rng.NormFloat64() * std)
	}
	return t
}

// UniformFanIn draws values from U(-1/sqrt(fanIn), 1/sqrt(fanIn)).
//
// This is the default for linear weights and for convolution and linear
// biases.
func UniformFanIn[B tensor.Backend](fanIn int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[B] {
	bound := 1 / math.Sqrt(float64(fanIn))
	t := tensor.Zeros(shape, backend)
	data := t.Data()
	for i := range data {
		data[i] = float32((rng.Float64()*2 - 1) * bound)
	}
	return t
}

// Zeros creates a tensor filled with zeros.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return tensor.Zeros(shape, backend)
}

// Ones creates a tensor filled with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return tensor.Ones(shape, backend)
}
