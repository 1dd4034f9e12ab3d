package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/ecgnet/internal/tensor"
)

// Conv1D is a 1-D convolutional layer over [batch, channels, length] signals.
//
// Weight shape: [out_channels, in_channels, kernel]
// Bias shape:   [out_channels]
// Output shape: [batch, out_channels, (length + 2*padding - kernel)/stride + 1]
//
// Example:
//
//	// Stem convolution over 12 ECG leads.
//	conv := nn.NewConv1D(12, 64, 15, 2, 7, false, rng, backend)
//	out := conv.Forward(signals) // [N, 64, L/2]
type Conv1D[B tensor.Backend] struct {
	inChannels  int
	outChannels int
	kernelSize  int
	stride      int
	padding     int

	weight *Parameter[B]
	bias   *Parameter[B] // nil when built without bias

	backend B
}

// NewConv1D creates a 1-D convolution.
//
// Initialization:
//   - Weight: Kaiming normal in fan-out mode (fan_out = out_channels * kernel)
//   - Bias: U(-1/sqrt(fan_in), 1/sqrt(fan_in)) with fan_in = in_channels * kernel
func NewConv1D[B tensor.Backend](
	inChannels, outChannels int,
	kernelSize, stride, padding int,
	useBias bool,
	rng *rand.Rand,
	backend B,
) *Conv1D[B] {
	if inChannels <= 0 || outChannels <= 0 {
		panic(fmt.Sprintf("conv1d: invalid channels in=%d, out=%d", inChannels, outChannels))
	}
	if kernelSize <= 0 || stride <= 0 || padding < 0 {
		panic(fmt.Sprintf("conv1d: invalid kernel=%d stride=%d padding=%d", kernelSize, stride, padding))
	}

	weight := KaimingNormal(outChannels*kernelSize, tensor.Shape{outChannels, inChannels, kernelSize}, rng, backend)

	c := &Conv1D[B]{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  kernelSize,
		stride:      stride,
		padding:     padding,
		weight:      NewParameter("conv1d.weight", weight),
		backend:     backend,
	}
	if useBias {
		bias := UniformFanIn(inChannels*kernelSize, tensor.Shape{outChannels}, rng, backend)
		c.bias = NewParameter("conv1d.bias", bias)
	}
	return c
}

// Forward performs the convolution.
func (c *Conv1D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("conv1d: expected 3D input [N,C,L], got %dD", len(shape)))
	}
	if shape[1] != c.inChannels {
		panic(fmt.Sprintf("conv1d: input channels %d != expected %d", shape[1], c.inChannels))
	}

	out := tensor.New(c.backend.Conv1D(input.Raw(), c.weight.Tensor().Raw(), c.stride, c.padding), c.backend)
	if c.bias != nil {
		// [C_out] -> [1, C_out, 1] so the add broadcasts and records on the tape.
		out = out.Add(c.bias.Tensor().Reshape(1, c.outChannels, 1))
	}
	return out
}

// Parameters returns the weight and, if present, the bias.
func (c *Conv1D[B]) Parameters() []*Parameter[B] {
	if c.bias != nil {
		return []*Parameter[B]{c.weight, c.bias}
	}
	return []*Parameter[B]{c.weight}
}

// Weight returns the kernel parameter.
func (c *Conv1D[B]) Weight() *Parameter[B] {
	return c.weight
}

// Bias returns the bias parameter, or nil.
func (c *Conv1D[B]) Bias() *Parameter[B] {
	return c.bias
}

// OutChannels returns the number of output channels.
func (c *Conv1D[B]) OutChannels() int {
	return c.outChannels
}

// OutputLength returns the output length for an input of the given length.
func (c *Conv1D[B]) OutputLength(length int) int {
	return (length+2*c.padding-c.kernelSize)/c.stride + 1
}

// String returns a string representation of the layer.
func (c *Conv1D[B]) String() string {
	return fmt.Sprintf("Conv1D(%d, %d, kernel_size=%d, stride=%d, padding=%d, bias=%v)",
		c.inChannels, c.outChannels, c.kernelSize, c.stride, c.padding, c.bias != nil)
}
